package services

import (
	"log/slog"

	"github.com/SAP-F-2025/interview-service/internal/cache"
	"github.com/SAP-F-2025/interview-service/internal/events"
	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/metrics"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"github.com/SAP-F-2025/interview-service/internal/validator"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

// ServiceManager hands out the service layer to handlers and runners.
type ServiceManager interface {
	Attempt() AttemptService
	Feedback() FeedbackService
	Interview() InterviewService
	Export() ExportService
}

// Dependencies are the collaborators shared by every service.
type Dependencies struct {
	Repo           repositories.Repository
	Cache          cache.CacheService
	EventPublisher events.EventPublisher
	Generator      feedback.Generator
	Metrics        *metrics.Metrics
	Clock          clockwork.Clock
	Logger         *slog.Logger
	Validator      *validator.Validator
	Attempts       AttemptServiceConfig
}

type serviceManager struct {
	attempt   AttemptService
	feedback  FeedbackService
	interview InterviewService
	export    ExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NewNoopCache()
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Generator == nil {
		deps.Generator = feedback.NewUnavailableGenerator()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if deps.EventPublisher == nil {
		deps.EventPublisher = events.NewMockEventPublisher(deps.Logger)
	}

	notifier := NewNotificationEventService(deps.EventPublisher, deps.Logger)
	attempt := NewAttemptService(deps.Repo, deps.Cache, notifier, deps.Metrics, deps.Clock,
		deps.Logger, deps.Validator, deps.Attempts)

	return &serviceManager{
		attempt:   attempt,
		feedback:  NewFeedbackService(deps.Repo, deps.Generator, notifier, deps.Metrics, deps.Logger, deps.Validator),
		interview: NewInterviewService(deps.Repo, deps.Cache, deps.Logger, deps.Validator),
		export:    NewExportService(deps.Repo, deps.Logger),
	}
}

func (m *serviceManager) Attempt() AttemptService     { return m.attempt }
func (m *serviceManager) Feedback() FeedbackService   { return m.feedback }
func (m *serviceManager) Interview() InterviewService { return m.interview }
func (m *serviceManager) Export() ExportService       { return m.export }
