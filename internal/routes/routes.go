package routes

import (
	"taskflow-api/internal/handlers"
	"taskflow-api/internal/middleware"
	"taskflow-api/internal/notify"
	"taskflow-api/internal/tasks"

	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the router over the given lifecycle service.
func SetupRoutes(svc *tasks.Service, dispatcher notify.Dispatcher) *gin.Engine {
	handlers.Init(svc, dispatcher)

	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskFlow API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Admin aggregations; registered alongside /tasks/:id, static segments win
		adminRoutes := protectedRoutes.Group("", middleware.RequireAdmin())
		{
			// account creation is an admin action; the first admin comes from
			// the database seed
			adminRoutes.POST("/register", handlers.Register)

			adminRoutes.GET("/tasks/active-timers", handlers.GetActiveTimers)
			adminRoutes.GET("/tasks/analytics", handlers.GetAnalytics)
		}

		// Task endpoints
		protectedRoutes.GET("/tasks", handlers.GetTasks)
		protectedRoutes.GET("/tasks/:id", handlers.GetTask)
		protectedRoutes.POST("/tasks", handlers.CreateTask)
		protectedRoutes.PUT("/tasks/:id", handlers.UpdateTask)
		protectedRoutes.DELETE("/tasks/:id", handlers.DeleteTask)
		protectedRoutes.PUT("/tasks/:id/archive", handlers.ArchiveTask)

		// Timer endpoints
		protectedRoutes.POST("/tasks/:id/timer/start", handlers.StartTimer)
		protectedRoutes.POST("/tasks/:id/timer/stop", handlers.StopTimer)

		// Comment endpoints
		protectedRoutes.POST("/tasks/:id/comments", handlers.AddComment)
		protectedRoutes.DELETE("/tasks/:id/comments/:commentId", handlers.DeleteComment)

		// Users endpoint
		protectedRoutes.GET("/users", handlers.GetAllUsers)

		// WebSocket endpoint for advisory task events
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
