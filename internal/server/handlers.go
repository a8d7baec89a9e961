package server

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/models"
)

const archivePageSize = 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// handleSubscribe handles POST /api/subscribe.
// A previously unsubscribed address is reactivated; an already active
// address is reported as a conflict.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req subscribeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	ctx := r.Context()
	store := s.app.Storage.SubscriberStore()

	existing, err := store.GetSubscriberByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up subscriber")
		WriteError(w, http.StatusInternalServerError, "Failed to look up subscriber")
		return
	}

	if existing != nil {
		if existing.Active {
			WriteError(w, http.StatusConflict, "Email is already subscribed")
			return
		}
		if err := store.SetSubscriberActive(ctx, email, true); err != nil {
			s.logger.Error().Err(err).Msg("Failed to reactivate subscriber")
			WriteError(w, http.StatusInternalServerError, "Failed to reactivate subscriber")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "reactivated", "email": email})
		return
	}

	if err := store.AddSubscriber(ctx, &models.Subscriber{Email: email, Active: true}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to add subscriber")
		WriteError(w, http.StatusInternalServerError, "Failed to add subscriber")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"status": "subscribed", "email": email})
}

// handleUnsubscribe handles POST /api/unsubscribe.
func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req subscribeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	ctx := r.Context()
	store := s.app.Storage.SubscriberStore()

	existing, err := store.GetSubscriberByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up subscriber")
		WriteError(w, http.StatusInternalServerError, "Failed to look up subscriber")
		return
	}
	if existing == nil {
		WriteError(w, http.StatusNotFound, "Email is not subscribed")
		return
	}

	if err := store.SetSubscriberActive(ctx, email, false); err != nil {
		s.logger.Error().Err(err).Msg("Failed to unsubscribe")
		WriteError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed", "email": email})
}

// handleArchiveList handles GET /api/archive?page=N.
func (s *Server) handleArchiveList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			WriteError(w, http.StatusBadRequest, "Invalid page number")
			return
		}
		page = p
	}

	ctx := r.Context()
	store := s.app.Storage.BriefingStore()

	total, err := store.CountBriefings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count briefings")
		WriteError(w, http.StatusInternalServerError, "Failed to list briefings")
		return
	}

	briefings, err := store.ListBriefings(ctx, (page-1)*archivePageSize, archivePageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list briefings")
		WriteError(w, http.StatusInternalServerError, "Failed to list briefings")
		return
	}
	if briefings == nil {
		briefings = []models.Briefing{}
	}

	totalPages := (total + archivePageSize - 1) / archivePageSize
	if totalPages < 1 {
		totalPages = 1
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"briefings":   briefings,
		"page":        page,
		"total_pages": totalPages,
		"total":       total,
	})
}

// handleArchiveGet handles GET /api/archive/{date}.
func (s *Server) handleArchiveGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	date := PathParam(r, "/api/archive/")
	if date == "" || strings.Contains(date, "/") {
		WriteError(w, http.StatusBadRequest, "Invalid briefing date")
		return
	}

	briefing, err := s.app.Storage.BriefingStore().GetBriefing(r.Context(), date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("Failed to get briefing")
		WriteError(w, http.StatusInternalServerError, "Failed to get briefing")
		return
	}
	if briefing == nil {
		WriteError(w, http.StatusNotFound, "No briefing for that date")
		return
	}

	WriteJSON(w, http.StatusOK, briefing)
}

// handleBriefingRun handles POST /api/briefing/run: an on-demand pipeline
// run outside the schedule. The call blocks until the run completes.
func (s *Server) handleBriefingRun(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	s.logger.Info().Msg("Manual briefing run requested")

	html, err := s.app.BriefingService.Run(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Manual briefing run failed")
		WriteError(w, http.StatusInternalServerError, "Briefing run failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "complete",
		"html_bytes": len(html),
	})
}

// normalizeEmail lowercases and validates an address.
func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}
