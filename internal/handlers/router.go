package handlers

import (
	"github.com/SAP-F-2025/interview-service/internal/auth"
	"github.com/SAP-F-2025/interview-service/internal/metrics"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"github.com/SAP-F-2025/interview-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HandlerManager struct {
	interviewHandler *InterviewHandler
	attemptHandler   *AttemptHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		interviewHandler: NewInterviewHandler(
			serviceManager.Interview(),
			serviceManager.Attempt(),
			serviceManager.Feedback(),
			serviceManager.Export(),
			logger,
		),
		attemptHandler: NewAttemptHandler(serviceManager.Attempt(), serviceManager.Feedback(), logger),
	}
}

// NewRouter builds the gin engine with the shared middleware chain and all
// routes.
func NewRouter(hm *HandlerManager, identity auth.IdentityProvider, m *metrics.Metrics, gatherer prometheus.Gatherer, logger utils.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.RequestID(),
		utils.LoggerMiddleware(logger),
		utils.ContextLogger(logger),
		metrics.GinMiddleware(m),
	)
	hm.SetupRoutes(router, identity, gatherer, logger)
	return router
}

// SetupRoutes sets up all API routes. Everything under /api/v1 requires an
// authenticated user.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, identity auth.IdentityProvider, gatherer prometheus.Gatherer, logger utils.Logger) {
	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.Use(auth.Middleware(identity, logger))
	{
		interviews := v1.Group("/interviews")
		{
			interviews.GET("", hm.interviewHandler.ListInterviews)
			interviews.GET("/:id", hm.interviewHandler.GetInterview)
			interviews.GET("/:id/questions", hm.interviewHandler.GetQuestions)
			interviews.GET("/:id/feedback", hm.interviewHandler.GetLatestFeedback)
			interviews.GET("/:id/results/export", auth.RequireAdmin(), hm.interviewHandler.ExportResults)
		}

		v1.GET("/users/me/interviews", hm.interviewHandler.ListMyCompletedInterviews)

		attempts := v1.Group("/attempts")
		{
			attempts.POST("", hm.attemptHandler.StartAttempt)
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
			attempts.POST("/:id/answers", hm.attemptHandler.SubmitAnswer)
			attempts.PUT("/:id/progress", hm.attemptHandler.UpdateProgress)
			attempts.POST("/:id/complete", hm.attemptHandler.CompleteAttempt)
			attempts.POST("/:id/feedback", hm.attemptHandler.GenerateFeedback)
		}
	}
}
