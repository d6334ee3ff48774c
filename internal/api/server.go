package api

import (
	"context"
	"net/http"

	"github.com/darmiel/ticketbind/internal/api/middleware"
	"github.com/darmiel/ticketbind/internal/core"
	"github.com/darmiel/ticketbind/internal/service"
	"github.com/darmiel/ticketbind/internal/tasks"
)

// AuditSearcher is the searchable face of an auditor. Only the in-memory
// auditor implements it; with a file or noop auditor the audit admin
// endpoint is unavailable.
type AuditSearcher interface {
	GetRecent(limit int) ([]core.AuditEntry, error)
	Find(filter func(entry core.AuditEntry) bool, limit int) ([]core.AuditEntry, error)
}

// SessionRemover revokes a session by ticket id.
type SessionRemover interface {
	Remove(ctx context.Context, id string) error
}

type Server struct {
	tokenService   *service.TokenService
	taskManager    *tasks.Manager
	sessions       core.SessionIndex
	sessionRemover SessionRemover
	auditSearch    AuditSearcher
	metricsHandler http.Handler
}

func NewServer(
	tokenService *service.TokenService,
	taskManager *tasks.Manager,
	sessions core.SessionIndex,
	sessionRemover SessionRemover,
	auditSearch AuditSearcher,
	metricsHandler http.Handler,
) *Server {
	return &Server{
		tokenService:   tokenService,
		taskManager:    taskManager,
		sessions:       sessions,
		sessionRemover: sessionRemover,
		auditSearch:    auditSearch,
		metricsHandler: metricsHandler,
	}
}

func (s *Server) Routes(adminSigningKey []byte) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// token endpoint and federated login
	mux.HandleFunc("POST "+OAuthTokenRoute, s.handleToken)
	mux.HandleFunc("POST "+FederatedLoginRoute, s.handleFederatedLogin)

	if s.metricsHandler != nil {
		mux.Handle("GET "+MetricsRoute, s.metricsHandler)
	}

	// admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET "+ListSessionsRoute, s.handleAdminSessions)
	adminMux.HandleFunc("DELETE "+RevokeSessionRoute, s.handleAdminSessionRevoke)
	adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudit)
	adminMux.HandleFunc("GET "+ListTasksRoute, s.handleAdminTasks)
	adminMux.HandleFunc("POST "+TriggerTaskRoute, s.handleAdminTriggerTask)
	adminMux.HandleFunc("GET "+LogsForTaskRoute, s.handleAdminTaskLogs)
	mux.Handle(AdminParent, middleware.AdminAuth(adminSigningKey)(adminMux))

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
