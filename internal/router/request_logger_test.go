package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerIncludesSubmissionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	engine := gin.New()
	engine.Use(RequestLogger(zap.New(core)))
	engine.POST("/api/proctor/:submissionId/events", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/proctor/sub-1/events", nil)
	engine.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sub-1", fields["submissionID"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestRequestLoggerErrorLevelForServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	engine := gin.New()
	engine.Use(RequestLogger(zap.New(core)))
	engine.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	engine.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	// No submission in the route, so the field stays absent.
	_, present := entries[0].ContextMap()["submissionID"]
	assert.False(t, present)
}
