package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/config"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/handlers"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/proctor"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, assessment *models.Assessment, manager *proctor.Manager) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("proctorsession", store))

	// --- Now that sessions are initialized, other middleware can use them ---
	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware())

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers and routes
	proctorHandler := handlers.NewProctorHandler(log, manager, assessment)
	reportHandler := handlers.NewReportHandler(log, assessment)

	// Signal batches arrive continuously while an exam is live; session
	// starts do not. Ingest gets a generous per-second budget, start a
	// tight per-minute one.
	ingestStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: 20,
	})
	ingestLimiter := ratelimit.RateLimiter(ingestStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})
	startStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	startLimiter := ratelimit.RateLimiter(startStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	api.Use(AuthRequired())
	{
		sessionRoutes := api.Group("/proctor")
		{
			sessionRoutes.POST("/start", startLimiter, proctorHandler.Start)
			sessionRoutes.POST("/:submissionId/events", ingestLimiter, proctorHandler.IngestEvents)
			sessionRoutes.POST("/:submissionId/suspend", proctorHandler.Suspend)
			sessionRoutes.POST("/:submissionId/resume", proctorHandler.Resume)
			sessionRoutes.POST("/:submissionId/typing/reset", proctorHandler.ResetTyping)
			sessionRoutes.POST("/:submissionId/answer-check", proctorHandler.CheckAnswer)
			sessionRoutes.PUT("/:submissionId/progress", proctorHandler.SaveProgress)
			sessionRoutes.GET("/:submissionId/progress/status", proctorHandler.SaveStatusFor)
			sessionRoutes.POST("/:submissionId/submit", proctorHandler.Submit)
		}

		reportRoutes := api.Group("/submissions")
		{
			reportRoutes.GET("/:submissionId/report", reportHandler.Show)
			reportRoutes.GET("/:submissionId/report/export", reportHandler.Export)
			reportRoutes.GET("/:submissionId/report/chart", reportHandler.Chart)
		}
	}

	return router
}
