package router

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskmate-dev/taskmate/internal/handlers"
	"github.com/taskmate-dev/taskmate/internal/middleware"
	"github.com/taskmate-dev/taskmate/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.LoadHTMLGlob(templatesGlob())

	r.GET("/login", handlers.LoginPage)

	pages := r.Group("/", middleware.PageAuthMiddleware())
	{
		pages.GET("", handlers.HomePage)
		pages.GET("/tasks/:task_id", handlers.TaskDetailPage)
	}

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.GET("/github", handlers.GithubLogin)
			auth.GET("/github/callback", handlers.GithubCallback)
		}

		api.POST("/init", middleware.AuthMiddleware(), handlers.InitCategories)
		api.GET("/categories", middleware.AuthMiddleware(), handlers.ListCategories)

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.GET("", handlers.ListTasks)
			tasks.POST("", handlers.CreateTask)
			tasks.GET("/:task_id", handlers.GetTask)
			tasks.PUT("/:task_id", handlers.UpdateTask)
			tasks.DELETE("/:task_id", handlers.DeleteTask)
		}
	}

	return r
}

func templatesGlob() string {
	if dir := os.Getenv("TEMPLATES_GLOB"); dir != "" {
		return dir
	}

	return "web/templates/*.html"
}
