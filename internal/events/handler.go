package events

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/httpx"
	"agency-backend/internal/middleware"
	"agency-backend/internal/transport"
	"github.com/go-chi/chi/v5"
)

const CachePrefix = "events"

type Handler struct {
	service *Service
	cache   cache.Cache
	ttl     time.Duration
	log     *slog.Logger
}

func NewHandler(service *Service, c cache.Cache, ttl time.Duration, log *slog.Logger) *Handler {
	return &Handler{service: service, cache: c, ttl: ttl, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/events", h.List)
	r.Get("/events/{slug}", h.Get)
	r.Get("/events/{slug}/service/{service}", h.EventService)
	r.Get("/venues", h.ListVenues)
	r.Get("/venues/{slug}/service/{service}", h.VenueService)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	query := r.URL.Query()
	key := cache.RequestKey(CachePrefix, r.URL.Path, cache.Only(query, "city", "upcoming"))
	if httpx.ServeFromCache(w, r, h.cache, key) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, query.Get("city"), httpx.ParseBool(query, "upcoming", false))
	if err != nil {
		log.Error("events list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("events list: ok", slog.Int("count", len(items)))
	httpx.StoreAndWrite(w, r, h.cache, log, key, h.ttl, map[string]interface{}{"items": items})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	detail, err := h.service.Get(ctx, slug)
	if err != nil {
		h.writeError(w, log, "events get", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) EventService(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	service := strings.TrimSpace(chi.URLParam(r, "service"))

	key := cache.RequestKey(CachePrefix, r.URL.Path, nil)
	if httpx.ServeFromCache(w, r, h.cache, key) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	landing, err := h.service.ServiceLanding(ctx, slug, service)
	if err != nil {
		h.writeError(w, log, "events service landing", err)
		return
	}
	httpx.StoreAndWrite(w, r, h.cache, log, key, h.ttl, landing)
}

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	venues, err := h.service.ListVenues(ctx)
	if err != nil {
		log.Error("venues list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": venues})
}

func (h *Handler) VenueService(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	service := strings.TrimSpace(chi.URLParam(r, "service"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	landing, err := h.service.VenueServiceLanding(ctx, slug, service)
	if err != nil {
		h.writeError(w, log, "venues service landing", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, landing)
}

func (h *Handler) writeError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrVenueNotFound), errors.Is(err, ErrServiceNotFound):
		log.Warn(op+": not found", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusNotFound, err.Error(), nil)
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}
