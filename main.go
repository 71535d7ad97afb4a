package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/config"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/database"
	logger "github.com/Micheduc25/evaluation-platform-sub000/internal/logging"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/proctor"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/repository"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/router"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/session"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Load the assessment definition at startup
	assessment, err := models.LoadAssessment("config/assessment.yaml")
	if err != nil {
		log.Fatal("Failed to load assessment", zap.Error(err))
	}

	// Wire the proctoring engine: every accepted violation lands in the
	// audit timeline; a limit breach force-submits the attempt.
	tokens := session.NewStore()
	callbacks := proctor.Callbacks{
		OnViolation: func(submissionID string, t models.ViolationType, message string) {
			if err := repository.RecordViolationEvent(context.Background(), submissionID, t, message); err != nil {
				log.Error("Failed to record violation event",
					zap.String("submissionID", submissionID), zap.Error(err))
			}
		},
		OnForcedSubmit: func(submissionID, reason string) {
			log.Warn("Forcing submission",
				zap.String("submissionID", submissionID), zap.String("reason", reason))
		},
	}
	manager := proctor.NewManager(
		proctor.ConfigFromApp(config.Conf.Proctoring), tokens, callbacks, log)

	// Setup router, passing the logger to it
	r := router.Setup(log, assessment, manager)

	port := config.Conf.Server.Port
	log.Info("Starting proctoring service", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}
