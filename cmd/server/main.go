package main

import (
	"log"
	"os"

	"taskflow-api/internal/database"
	"taskflow-api/internal/notify"
	"taskflow-api/internal/routes"
	"taskflow-api/internal/tasks"
)

func main() {
	// Init database
	database.InitDB()

	// Email delivery when SMTP is configured, log-only otherwise
	var dispatcher notify.Dispatcher = notify.LogDispatcher{}
	if email := notify.NewEmailDispatcherFromEnv(); email != nil {
		dispatcher = email
	}

	svc := tasks.NewService(database.GetDB(), dispatcher)
	ginRoutes := routes.SetupRoutes(svc, dispatcher)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port :%s", port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/register")
	log.Println("  POST   /api/login")
	log.Println("  GET    /api/users")
	log.Println("  GET    /api/tasks")
	log.Println("  GET    /api/tasks/:id")
	log.Println("  POST   /api/tasks")
	log.Println("  PUT    /api/tasks/:id")
	log.Println("  DELETE /api/tasks/:id")
	log.Println("  PUT    /api/tasks/:id/archive")
	log.Println("  POST   /api/tasks/:id/timer/start")
	log.Println("  POST   /api/tasks/:id/timer/stop")
	log.Println("  POST   /api/tasks/:id/comments")
	log.Println("  DELETE /api/tasks/:id/comments/:commentId")
	log.Println("  GET    /api/tasks/active-timers")
	log.Println("  GET    /api/tasks/analytics")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
