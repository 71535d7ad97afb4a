package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/report"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/repository"
)

// ReportHandler serves the review-time integrity report.
type ReportHandler struct {
	log        *zap.Logger
	assessment *models.Assessment
}

func NewReportHandler(log *zap.Logger, assessment *models.Assessment) *ReportHandler {
	return &ReportHandler{log: log, assessment: assessment}
}

// Show returns the composed analysis for the grading UI.
func (h *ReportHandler) Show(c *gin.Context) {
	submission, err := repository.GetSubmission(c.Request.Context(), c.Param("submissionId"))
	if err != nil {
		h.log.Warn("Submission not found for report", zap.Error(err))
		// A missing record still renders a "no data" analysis rather than
		// breaking the review page.
		c.JSON(http.StatusOK, report.Analyze(nil, nil))
		return
	}

	analysis := report.Analyze(submission, h.assessment)
	c.JSON(http.StatusOK, gin.H{
		"analysis":   analysis,
		"violations": report.FormatViolations(submission.Violations),
	})
}

// Export serves the full report document as a JSON file download with a
// name derived deterministically from the submission ID.
func (h *ReportHandler) Export(c *gin.Context) {
	submissionID := c.Param("submissionId")
	submission, err := repository.GetSubmission(c.Request.Context(), submissionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	events, err := repository.ListViolationEvents(c.Request.Context(), submissionID)
	if err != nil {
		h.log.Error("Failed to load violation timeline", zap.Error(err))
		events = nil
	}

	doc, err := report.Export(submission, h.assessment, events)
	if err != nil {
		h.log.Error("Failed to build export document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.ExportFileName(submissionID)+`"`)
	c.Data(http.StatusOK, "application/json", doc)
}

// Chart renders the violation bar chart as a standalone HTML page.
func (h *ReportHandler) Chart(c *gin.Context) {
	submission, err := repository.GetSubmission(c.Request.Context(), c.Param("submissionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	bar := report.ViolationChart(submission.Violations, h.assessment.Title)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := bar.Render(c.Writer); err != nil {
		h.log.Error("Failed to render violation chart", zap.Error(err))
	}
}
