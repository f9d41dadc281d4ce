package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-management-service/config"
	"github.com/example/task-management-service/modules/activity"
	"github.com/example/task-management-service/modules/api"
	"github.com/example/task-management-service/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Task Management Service ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := mono.WithLogLevel(mono.LogLevelInfo)
	if cfg.LogLevel == "error" {
		logLevel = mono.WithLogLevel(mono.LogLevelError)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		logLevel,
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Order: event consumer first, then the core module, then the HTTP adapter
	// that depends on it.
	app.Register(activity.NewModule(app.Logger()))
	app.Register(task.NewModule(cfg, app.Logger()))
	app.Register(api.NewModule(cfg, app.Logger()))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("Store driver: %s", cfg.DBDriver)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost%s):", cfg.Address())
	log.Println("  GET    /task/all?page=&size=       - List tasks")
	log.Println("  POST   /task/new                   - Create a task")
	log.Println("  PATCH  /task/update/:taskId        - Update title or status")
	log.Println("  DELETE /task/delete/:taskId        - Delete a task")
	log.Println("  GET    /health_check               - Database health")
	log.Println("  GET    /docs/                      - API documentation")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
