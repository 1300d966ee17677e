package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskmate-dev/taskmate/db"
	"github.com/taskmate-dev/taskmate/internal/models"
	"github.com/taskmate-dev/taskmate/internal/types"
	"github.com/taskmate-dev/taskmate/internal/utils"
)

// The starter set every new account receives.
var defaultCategories = []models.Category{
	{Name: "Work", Color: "#3b82f6", Icon: "💼"},
	{Name: "Personal", Color: "#10b981", Icon: "🏠"},
	{Name: "Shopping", Color: "#f59e0b", Icon: "🛒"},
	{Name: "Health", Color: "#ef4444", Icon: "❤️"},
	{Name: "Learning", Color: "#8b5cf6", Icon: "📚"},
}

// bootstrapCategories inserts the default set for a user that has no
// categories yet. Idempotent: existing rows make it a no-op.
func bootstrapCategories(userID uint) error {
	var count int64

	if err := db.DB.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	categories := make([]models.Category, len(defaultCategories))

	for i, category := range defaultCategories {
		category.UserID = userID
		categories[i] = category
	}

	return db.DB.Create(&categories).Error
}

func InitCategories(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var count int64

	if err := db.DB.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		log.Printf("Failed to count categories for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if count > 0 {
		ctx.JSON(http.StatusOK, gin.H{
			"message": "Categories already exist",
			"count":   count,
		})
		return
	}

	if err := bootstrapCategories(userID); err != nil {
		log.Printf("Failed to create default categories for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Default categories created successfully",
		"count":   len(defaultCategories),
	})
}

func ListCategories(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var categories []models.Category

	if err := db.DB.Where("user_id = ?", userID).Order("id").Find(&categories).Error; err != nil {
		log.Printf("Failed to list categories for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.CategoryResponse, 0, len(categories))

	for _, category := range categories {
		response = append(response, types.CategoryResponse{
			ID:    category.ID,
			Name:  category.Name,
			Color: category.Color,
			Icon:  category.Icon,
		})
	}

	ctx.JSON(http.StatusOK, response)
}
