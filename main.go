package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/deependr20/hrms-sub001/config"
	"github.com/deependr20/hrms-sub001/models"
	"github.com/deependr20/hrms-sub001/routes"
	"github.com/deependr20/hrms-sub001/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	utils.SetJWTSecret(cfg.JWTSecret)
	gin.SetMode(cfg.GinMode)

	db, err := config.ConnectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.Employee{},
		&models.Project{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.TimeEntry{},
		&models.TaskComment{},
		&models.AssignmentEvent{},
		&models.StatusChange{},
	); err != nil {
		slog.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	r := routes.SetupRouter(db)

	slog.Info("starting server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
