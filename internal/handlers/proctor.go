package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/fingerprint"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/proctor"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/repository"
)

// SaveStatus is the tri-state progress-save indicator shown in the UI.
type SaveStatus string

const (
	SaveStatusSaved  SaveStatus = "saved"
	SaveStatusSaving SaveStatus = "saving"
	SaveStatusError  SaveStatus = "error"
)

// ProctorHandler exposes the monitoring lifecycle over HTTP.
type ProctorHandler struct {
	log        *zap.Logger
	manager    *proctor.Manager
	assessment *models.Assessment

	statusMu   sync.Mutex
	saveStatus map[string]SaveStatus
}

func NewProctorHandler(log *zap.Logger, manager *proctor.Manager, assessment *models.Assessment) *ProctorHandler {
	return &ProctorHandler{
		log:        log,
		manager:    manager,
		assessment: assessment,
		saveStatus: make(map[string]SaveStatus),
	}
}

type startRequest struct {
	SubmissionID string                  `json:"submissionId"`
	UserID       string                  `json:"userId"`
	Environment  fingerprint.Environment `json:"environment"`
}

// Start creates the submission record if needed and begins monitoring.
func (h *ProctorHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind start request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	if req.SubmissionID == "" {
		req.SubmissionID = uuid.NewString()
		sub := &models.Submission{
			ID:           req.SubmissionID,
			AssessmentID: h.assessment.ID,
			UserID:       req.UserID,
		}
		if err := repository.CreateSubmission(c.Request.Context(), sub); err != nil {
			h.log.Error("Failed to create submission", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
			return
		}
	}

	hook := h.manager.Acquire(req.SubmissionID)
	token, err := hook.Start(req.SubmissionID, req.UserID, req.Environment)
	if err != nil {
		h.log.Error("Failed to start monitoring",
			zap.String("submissionID", req.SubmissionID), zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissionId": req.SubmissionID,
		"token":        token,
	})
}

// IngestEvents receives a batch of raw environment signals and returns any
// live warnings plus the forced-submit flag.
func (h *ProctorHandler) IngestEvents(c *gin.Context) {
	submissionID := c.Param("submissionId")
	hook, ok := h.manager.Get(submissionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No monitoring session for submission"})
		return
	}

	var events []models.SignalEvent
	if err := c.ShouldBindJSON(&events); err != nil {
		h.log.Error("Failed to bind signal events", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	for _, ev := range events {
		hook.HandleEvent(ev)
	}

	c.JSON(http.StatusOK, gin.H{
		"warnings":     hook.DrainWarnings(),
		"counts":       hook.Counts(),
		"forced":       hook.ForcedReason() != "",
		"forcedReason": hook.ForcedReason(),
	})
}

// Suspend temporarily disables monitoring (e.g. during a legitimate upload
// dialog). It auto-expires server-side if the client never resumes.
func (h *ProctorHandler) Suspend(c *gin.Context) {
	hook, ok := h.manager.Get(c.Param("submissionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No monitoring session for submission"})
		return
	}
	hook.TemporarilyDisable()
	c.JSON(http.StatusOK, gin.H{"state": hook.State()})
}

// Resume re-enables monitoring after a suspension.
func (h *ProctorHandler) Resume(c *gin.Context) {
	hook, ok := h.manager.Get(c.Param("submissionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No monitoring session for submission"})
		return
	}
	hook.Resume()
	c.JSON(http.StatusOK, gin.H{"state": hook.State()})
}

// ResetTyping clears the typing counters when the student navigates to a
// different question.
func (h *ProctorHandler) ResetTyping(c *gin.Context) {
	hook, ok := h.manager.Get(c.Param("submissionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No monitoring session for submission"})
		return
	}
	if typing := hook.Typing(); typing != nil {
		typing.Reset()
	}
	c.Status(http.StatusOK)
}

// CheckAnswer runs pull-style anomaly checks for the answer just completed.
func (h *ProctorHandler) CheckAnswer(c *gin.Context) {
	hook, ok := h.manager.Get(c.Param("submissionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No monitoring session for submission"})
		return
	}

	var req struct {
		AnswerLength int `json:"answerLength"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	anomalies := []models.Anomaly{}
	if typing := hook.Typing(); typing != nil {
		anomalies = append(anomalies, typing.DetectAnomaly(req.AnswerLength)...)
	}
	if mouse := hook.Mouse(); mouse != nil {
		anomalies = append(anomalies, mouse.DetectAnomalies()...)
	}
	c.JSON(http.StatusOK, gin.H{"anomalies": anomalies})
}

type progressRequest struct {
	Answers              map[string]string    `json:"answers"`
	CurrentQuestionIndex int                  `json:"currentQuestionIndex"`
	TimeSpentPerQuestion models.QuestionTimes `json:"timeSpentPerQuestion"`
}

// SaveProgress persists in-flight answers, fire-and-forget. The response
// reports "saving"; the client polls SaveStatusFor for the outcome.
func (h *ProctorHandler) SaveProgress(c *gin.Context) {
	submissionID := c.Param("submissionId")
	hook, ok := h.manager.Get(submissionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No monitoring session for submission"})
		return
	}

	if !hook.IsValidSaveState() {
		c.JSON(http.StatusConflict, gin.H{"error": "Session integrity compromised; progress not saved"})
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind progress", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	h.setSaveStatus(submissionID, SaveStatusSaving)
	progress := repository.Progress{
		Answers:              req.Answers,
		CurrentQuestionIndex: req.CurrentQuestionIndex,
		TimeSpentPerQuestion: req.TimeSpentPerQuestion,
		Violations:           hook.Counts(),
	}

	go func() {
		// Detached from the request context on purpose: persistence is a
		// best-effort collaborator and must not block the engine.
		if err := repository.SaveProgress(context.Background(), submissionID, progress); err != nil {
			h.log.Error("Failed to save progress",
				zap.String("submissionID", submissionID), zap.Error(err))
			h.setSaveStatus(submissionID, SaveStatusError)
			return
		}
		h.setSaveStatus(submissionID, SaveStatusSaved)
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": SaveStatusSaving})
}

// SaveStatusFor reports the last known save outcome for a submission.
func (h *ProctorHandler) SaveStatusFor(c *gin.Context) {
	h.statusMu.Lock()
	status, ok := h.saveStatus[c.Param("submissionId")]
	h.statusMu.Unlock()
	if !ok {
		status = SaveStatusSaved
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

type submitRequest struct {
	Answers              map[string]string    `json:"answers"`
	TimeSpentPerQuestion models.QuestionTimes `json:"timeSpentPerQuestion"`
	Forced               bool                 `json:"forced"`
}

// Submit finalizes the attempt and tears monitoring down.
func (h *ProctorHandler) Submit(c *gin.Context) {
	submissionID := c.Param("submissionId")
	hook, ok := h.manager.Get(submissionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No monitoring session for submission"})
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind submit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	forced := req.Forced
	forcedReason := hook.ForcedReason()
	if forcedReason != "" {
		forced = true
	}

	progress := repository.Progress{
		Answers:              req.Answers,
		TimeSpentPerQuestion: req.TimeSpentPerQuestion,
		Violations:           hook.Counts(),
	}
	if err := repository.SaveProgress(c.Request.Context(), submissionID, progress); err != nil {
		h.log.Error("Failed to persist final answers",
			zap.String("submissionID", submissionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist answers"})
		return
	}

	if err := repository.Submit(c.Request.Context(), submissionID, hook.Counts(), forced, forcedReason); err != nil {
		h.log.Error("Failed to finalize submission",
			zap.String("submissionID", submissionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize submission"})
		return
	}

	h.manager.Release(submissionID)
	c.JSON(http.StatusOK, gin.H{"submitted": true, "forced": forced})
}

func (h *ProctorHandler) setSaveStatus(submissionID string, status SaveStatus) {
	h.statusMu.Lock()
	h.saveStatus[submissionID] = status
	h.statusMu.Unlock()
}
