package calendar

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/httpx"
	"agency-backend/internal/middleware"
	"agency-backend/internal/notifications"
	"agency-backend/internal/transport"
	"agency-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

const CachePrefix = "calendar"

type Handler struct {
	service *Service
	val     *validation.Validator
	cache   cache.Cache
	ttl     time.Duration
	feedURL string
	log     *slog.Logger
}

// NewHandler builds the calendar routes. feedURL is the public export URL
// encoded in the QR code; when empty it is derived from the request.
func NewHandler(service *Service, val *validation.Validator, c cache.Cache, ttl time.Duration, feedURL string, log *slog.Logger) *Handler {
	return &Handler{service: service, val: val, cache: c, ttl: ttl, feedURL: feedURL, log: log}
}

func (h *Handler) Routes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/calendar/schedule", h.GetSchedule)
	r.Get("/calendar/upcoming", h.Upcoming)
	r.Get("/calendar/export", h.Export)
	r.Get("/calendar/qr-code", h.QRCode)

	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Post("/calendar/update-schedule", h.UpdateSchedule)
		r.Post("/calendar/send-reminder", h.SendReminder)
		r.Get("/calendar/generate-draft/{type}", h.GenerateDraft)
		r.Post("/calendar/events/{id}/status", h.UpdateStatus)
	})
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	key := cache.RequestKey(CachePrefix, "schedule", nil)
	if httpx.ServeFromCache(w, r, h.cache, key) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sched, err := h.service.Schedule(ctx)
	if err != nil {
		log.Error("calendar schedule: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	httpx.StoreAndWrite(w, r, h.cache, log, key, h.ttl, sched)
}

func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	events, err := h.service.Upcoming(ctx)
	if err != nil {
		log.Error("calendar upcoming: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	log.Info("calendar upcoming: ok", slog.Int("count", len(events)))
	transport.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var buf bytes.Buffer
	if err := h.service.Export(ctx, &buf); err != nil {
		log.Error("calendar export: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "export failed", nil)
		return
	}
	transport.WriteFile(w, "text/calendar; charset=utf-8", "content-calendar.ics", buf.Bytes())
}

func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	size := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("size")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid size", nil)
			return
		}
		size = parsed
	}

	png, err := QRCode(h.exportURL(r), size)
	if err != nil {
		if errors.Is(err, ErrInvalidQRSize) {
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		log.Error("calendar qr: encode failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "qr encode failed", nil)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	transport.WriteFile(w, "image/png", "", png)
}

func (h *Handler) exportURL(r *http.Request) string {
	if h.feedURL != "" {
		return h.feedURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr-code") + "/export"
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req ScheduleRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("calendar update schedule: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("calendar update schedule: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	sched, err := h.service.UpdateSchedule(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInvalidSchedule) {
			log.Warn("calendar update schedule: invalid", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		log.Error("calendar update schedule: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	httpx.Invalidate(r, h.cache, log, CachePrefix+":")
	log.Info("calendar update schedule: ok")
	transport.WriteJSON(w, http.StatusOK, sched)
}

func (h *Handler) SendReminder(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req ReminderRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("calendar send reminder: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("calendar send reminder: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	ev, err := h.service.SendReminder(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			log.Warn("calendar send reminder: not found", slog.String("event_id", req.EventID))
			transport.WriteError(w, http.StatusNotFound, "event not found", nil)
		case errors.Is(err, notifications.ErrNotConfigured):
			log.Warn("calendar send reminder: mailer not configured")
			transport.WriteError(w, http.StatusServiceUnavailable, "mailer not configured", nil)
		case errors.Is(err, ErrNoRecipient):
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		default:
			log.Error("calendar send reminder: failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadGateway, "reminder delivery failed", nil)
		}
		return
	}

	log.Info("calendar send reminder: ok", slog.String("event_id", ev.ID))
	transport.WriteJSON(w, http.StatusOK, ev)
}

func (h *Handler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	kind := chi.URLParam(r, "type")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.GenerateDraft(ctx, kind)
	if err != nil {
		if errors.Is(err, ErrUnknownDraftType) {
			log.Warn("calendar draft: unknown type", slog.String("type", kind))
			transport.WriteError(w, http.StatusBadRequest, "unknown draft type", map[string]string{"type": kind})
			return
		}
		log.Error("calendar draft: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req StatusRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ev, err := h.service.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			transport.WriteError(w, http.StatusNotFound, "event not found", nil)
			return
		}
		log.Error("calendar status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	log.Info("calendar status: ok", slog.String("event_id", id), slog.String("status", string(ev.Status)))
	transport.WriteJSON(w, http.StatusOK, ev)
}
