package leads

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"agency-backend/internal/httpx"
	"agency-backend/internal/middleware"
	"agency-backend/internal/schedule"
	"agency-backend/internal/transport"
	"agency-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
	// notify runs the post-create emails; tests swap it for a synchronous call.
	notify  func(Lead)
	pending sync.WaitGroup
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	h := &Handler{service: service, val: val, log: log}
	h.notify = func(lead Lead) {
		h.pending.Add(1)
		go func() {
			defer h.pending.Done()
			h.sendNotifications(lead)
		}()
	}
	return h
}

// Wait blocks until every notification started by Create has finished.
// Each send is bounded by its own timeout.
func (h *Handler) Wait() {
	h.pending.Wait()
}

func (h *Handler) Routes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Post("/leads", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Get("/admin/leads", h.AdminList)
		r.Get("/admin/leads/summary", h.AdminSummary)
		r.Get("/admin/leads/{id}", h.AdminGet)
		r.Patch("/admin/leads/{id}", h.AdminUpdateStatus)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("lead create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("lead create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	lead, err := h.service.Create(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSource):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"source": "oneof"})
		case errors.Is(err, ErrUnknownService):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"service": "unknown"})
		case errors.Is(err, ErrUnknownIndustry):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"industry": "unknown"})
		default:
			log.Error("lead create: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	h.notify(lead)

	log.Info("lead create: ok", slog.String("lead_id", lead.ID), slog.String("source", lead.Source), slog.String("service", lead.Service))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "request received",
		"id":      lead.ID,
	})
}

func (h *Handler) sendNotifications(lead Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := h.service.Notify(ctx, lead); err != nil {
		h.log.Warn("lead create: notification failed",
			slog.String("lead_id", lead.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	query := r.URL.Query()
	limit, offset, err := httpx.ParseLimitOffset(query, 20, 100)
	if err != nil {
		log.Warn("admin leads list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	since, ok := h.parseSince(w, r)
	if !ok {
		return
	}
	filter := ListFilter{
		Status:  query.Get("status"),
		Source:  query.Get("source"),
		Service: query.Get("service"),
		Search:  query.Get("q"),
		Since:   since,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
		case errors.Is(err, ErrInvalidSource):
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"source": "oneof"})
		default:
			log.Error("admin leads list: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin leads list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

// parseSince reads the optional since=YYYY-MM-DD query parameter and writes
// the 400 itself when it is malformed.
func (h *Handler) parseSince(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	value := strings.TrimSpace(r.URL.Query().Get("since"))
	if value == "" {
		return time.Time{}, true
	}
	since, err := schedule.ParseDate(value, h.service.location)
	if err != nil {
		middleware.WithRequest(h.log, r).Warn("admin leads: invalid since", slog.String("since", value))
		transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"since": "date"})
		return time.Time{}, false
	}
	return since, true
}

func (h *Handler) AdminSummary(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	since, ok := h.parseSince(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	sum, err := h.service.Summary(ctx, since)
	if err != nil {
		log.Error("admin leads summary: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, sum)
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin leads get: not found", slog.String("lead_id", id))
			transport.WriteError(w, http.StatusNotFound, "lead not found", nil)
			return
		}
		log.Error("admin leads get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, lead)
}

func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req StatusRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin leads status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin leads status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.UpdateStatus(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"status": "oneof"})
		case errors.Is(err, ErrReopenAsNew):
			transport.WriteError(w, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			log.Warn("admin leads status: not found", slog.String("lead_id", id))
			transport.WriteError(w, http.StatusNotFound, "lead not found", nil)
		default:
			log.Error("admin leads status: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin leads status: ok", slog.String("lead_id", id), slog.String("status", lead.Status))
	transport.WriteJSON(w, http.StatusOK, lead)
}
