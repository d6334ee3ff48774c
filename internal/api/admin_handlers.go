package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ticketbind/internal/api/presenter"
	"github.com/darmiel/ticketbind/internal/core"
)

// handleAdminSessions lists the active sessions in index order.
func (s *Server) handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	sessions, err := s.sessions.AllSessions(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list sessions")
		presenter.Error(w, r, "failed to list sessions", http.StatusInternalServerError)
		return
	}

	// optionally filter by owner
	if owner := r.URL.Query().Get("owner"); owner != "" {
		filtered := sessions[:0]
		for _, session := range sessions {
			if session.Owner == owner {
				filtered = append(filtered, session)
			}
		}
		sessions = filtered
	}

	presenter.JSON(w, r, sessions, http.StatusOK)
}

// handleAdminSessionRevoke removes a session. Tokens bound to the ticket
// die with it.
func (s *Server) handleAdminSessionRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	id := r.PathValue("id")
	if id == "" {
		presenter.Error(w, r, "missing session id", http.StatusBadRequest)
		return
	}

	if err := s.sessionRemover.Remove(ctx, id); err != nil {
		logger.Error().Err(err).Str("session_id", id).Msg("failed to revoke session")
		presenter.Error(w, r, "failed to revoke session", http.StatusInternalServerError)
		return
	}

	logger.Info().Str("session_id", id).Msg("session revoked")
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminAudit processes requests to retrieve audit log entries.
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	if s.auditSearch == nil {
		presenter.Error(w, r, "audit search requires the memory auditor", http.StatusNotImplemented)
		return
	}

	// filters
	q := r.URL.Query()
	limitStr := q.Get("limit")

	filterCorrelationID := q.Get("correlation_id")
	filterPrincipalID := q.Get("principal_id")
	filterAction := q.Get("action")

	limit := 50
	if limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			logger.Warn().Err(err).Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	var entries []core.AuditEntry
	var err error

	if filterCorrelationID != "" || filterAction != "" || filterPrincipalID != "" {
		logger.Info().Msgf("applying audit log filters")
		entries, err = s.auditSearch.Find(func(entry core.AuditEntry) bool {
			if filterCorrelationID != "" && entry.ID != filterCorrelationID {
				return false
			}
			if filterAction != "" && entry.Action != filterAction {
				return false
			}
			if filterPrincipalID != "" && entry.PrincipalID != filterPrincipalID {
				return false
			}
			return true
		}, limit)
	} else {
		log.Debug().Msgf("retrieving recent audit log entries")
		entries, err = s.auditSearch.GetRecent(limit)
	}

	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve audit logs")
		presenter.Error(w, r, "failed to retrieve audit logs", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}

// handleAdminTasks lists the status of the registered background tasks.
func (s *Server) handleAdminTasks(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, s.taskManager.ListStatus(), http.StatusOK)
}

// handleAdminTriggerTask runs a task out of schedule.
func (s *Server) handleAdminTriggerTask(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.taskManager.Trigger(name); err != nil {
		presenter.Error(w, r, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleAdminTaskLogs returns the log of a task's most recent run.
func (s *Server) handleAdminTaskLogs(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	logs, err := s.taskManager.GetLogs(name)
	if err != nil {
		presenter.Error(w, r, err.Error(), http.StatusNotFound)
		return
	}
	presenter.JSON(w, r, logs, http.StatusOK)
}
