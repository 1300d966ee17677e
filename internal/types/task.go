package types

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var ValidPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// Columns the task list endpoint accepts for sorting, mapped to
// their database names.
var TaskSortColumns = map[string]string{
	"dueDate":   "due_date",
	"priority":  "priority",
	"createdAt": "created_at",
	"title":     "title",
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type CategoryResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// TaskResponse is the wire shape of a task: timestamps as ISO-8601
// strings and the joined category embedded as an object or null.
type TaskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    string            `json:"priority"`
	Completed   bool              `json:"completed"`
	DueDate     *string           `json:"dueDate"`
	CompletedAt *string           `json:"completedAt"`
	CategoryID  *uint             `json:"categoryId"`
	Position    *int              `json:"position"`
	UserID      uint              `json:"userId"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
	Category    *CategoryResponse `json:"category"`
}
