package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskmate-dev/taskmate/db"
	"github.com/taskmate-dev/taskmate/internal/models"
	"github.com/taskmate-dev/taskmate/internal/types"
	"github.com/taskmate-dev/taskmate/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	CategoryID  *uint   `json:"categoryId"`
	Position    *int    `json:"position"`
}

// UpdateTaskRequest carries a partial field set: nil means "leave
// unchanged". An empty dueDate clears the due date; categoryId 0 clears
// the category.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"dueDate"`
	CategoryID  *uint   `json:"categoryId"`
	Position    *int    `json:"position"`
}

func ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := db.DB.Preload("Category").Where("user_id = ?", userID)

	switch ctx.Query("status") {
	case "active":
		query = query.Where("completed = ?", false)
	case "completed":
		query = query.Where("completed = ?", true)
	}

	if priority := ctx.Query("priority"); priority != "" && priority != "all" {
		if !types.ValidPriorities[priority] {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority filter"})
			return
		}

		query = query.Where("priority = ?", priority)
	}

	column, ok := types.TaskSortColumns[ctx.DefaultQuery("sortBy", "createdAt")]

	if !ok {
		column = "created_at"
	}

	order := "DESC"

	if ctx.Query("sortOrder") == "asc" {
		order = "ASC"
	}

	var tasks []models.Task

	if err := query.Order(column + " " + order).Find(&tasks).Error; err != nil {
		log.Printf("Failed to list tasks for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Substring search stays in memory; the per-user list is small.
	search := strings.ToLower(ctx.Query("search"))

	response := make([]types.TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		if search != "" &&
			!strings.Contains(strings.ToLower(task.Title), search) &&
			!strings.Contains(strings.ToLower(task.Description), search) {
			continue
		}

		response = append(response, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)

	if req.Title == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	priority := req.Priority

	if priority == "" {
		priority = types.PriorityMedium
	}

	if !types.ValidPriorities[priority] {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	dueDate, err := parseDueDate(req.DueDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date"})
		return
	}

	categoryID, ok := resolveCategory(ctx, userID, req.CategoryID)

	if !ok {
		return
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Completed:   false,
		DueDate:     dueDate,
		CategoryID:  categoryID,
		Position:    req.Position,
		UserID:      userID,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Preload("Category").First(&task, task.ID).Error; err != nil {
		log.Printf("Failed to reload task %d: %v", task.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(userID)

	ctx.JSON(http.StatusCreated, gin.H{"task": taskResponse(task)})
}

func GetTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task models.Task

	if err := db.DB.Preload("Category").Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to fetch task %d: %v", taskID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"task": taskResponse(task)})
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req UpdateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to fetch task %d: %v", taskID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	// Merge semantics: only fields present in the request change;
	// everything else keeps its stored value.
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)

		if title == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}

		task.Title = title
	}

	if req.Description != nil {
		task.Description = *req.Description
	}

	if req.Priority != nil {
		if !types.ValidPriorities[*req.Priority] {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}

		task.Priority = *req.Priority
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			task.DueDate = nil
		} else {
			dueDate, err := parseDueDate(req.DueDate)

			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date"})
				return
			}

			task.DueDate = dueDate
		}
	}

	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			task.CategoryID = nil
		} else {
			categoryID, ok := resolveCategory(ctx, userID, req.CategoryID)

			if !ok {
				return
			}

			task.CategoryID = categoryID
		}
	}

	if req.Position != nil {
		task.Position = req.Position
	}

	// completedAt is derived from completed transitions.
	if req.Completed != nil && *req.Completed != task.Completed {
		if *req.Completed {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}

		task.Completed = *req.Completed
	}

	if err := db.DB.Save(&task).Error; err != nil {
		log.Printf("Failed to update task %d: %v", taskID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Preload("Category").First(&task, task.ID).Error; err != nil {
		log.Printf("Failed to reload task %d: %v", task.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(userID)

	ctx.JSON(http.StatusOK, gin.H{"task": taskResponse(task)})
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to fetch task %d: %v", taskID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	// Deletion is permanent; no soft-delete semantics.
	if err := db.DB.Unscoped().Delete(&task).Error; err != nil {
		log.Printf("Failed to delete task %d: %v", taskID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(userID)

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// resolveCategory validates that a requested category belongs to the
// caller. Writes the error response itself when validation fails.
func resolveCategory(ctx *gin.Context, userID uint, categoryID *uint) (*uint, bool) {
	if categoryID == nil || *categoryID == 0 {
		return nil, true
	}

	var category models.Category

	if err := db.DB.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		} else {
			log.Printf("Failed to fetch category %d: %v", *categoryID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	return categoryID, true
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	// Accept full timestamps and bare dates from the date picker.
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t, nil
		}
	}

	return nil, errors.New("unrecognized due date format")
}

func taskResponse(task models.Task) types.TaskResponse {
	createdAt := task.CreatedAt

	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	updatedAt := task.UpdatedAt

	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	response := types.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Completed:   task.Completed,
		DueDate:     formatTimePtr(task.DueDate),
		CompletedAt: formatTimePtr(task.CompletedAt),
		CategoryID:  task.CategoryID,
		Position:    task.Position,
		UserID:      task.UserID,
		CreatedAt:   formatTime(createdAt),
		UpdatedAt:   formatTime(updatedAt),
	}

	if task.Category != nil {
		response.Category = &types.CategoryResponse{
			ID:    task.Category.ID,
			Name:  task.Category.Name,
			Color: task.Category.Color,
			Icon:  task.Category.Icon,
		}
	}

	return response
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := formatTime(*t)

	return &formatted
}
