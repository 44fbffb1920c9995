package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dnoglop/task-joule/cache"
	"github.com/dnoglop/task-joule/db"
	"github.com/dnoglop/task-joule/handlers"
	"github.com/dnoglop/task-joule/routes"
	"github.com/dnoglop/task-joule/services"
	"github.com/dnoglop/task-joule/storage"
	"github.com/dnoglop/task-joule/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	// Initialize database
	database, err := db.NewDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Object storage for avatars (disabled when not configured)
	objects, err := storage.NewClient(storage.ConfigFromEnv())
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}

	queryCache := cache.New(256, 5*time.Minute)
	mailer := utils.NewEmailSender()

	// Initialize services and handlers
	sm := services.NewServiceManager(database, queryCache, objects, mailer)
	hm := handlers.NewHandlerManager(sm)

	// Setup routes
	r := routes.SetupRoutes(hm, database)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("task dashboard starting", "port", port)
	log.Fatal(r.Run(":" + port))
}
