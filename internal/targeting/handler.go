package targeting

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/casestudies"
	"agency-backend/internal/httpx"
	"agency-backend/internal/middleware"
	"agency-backend/internal/transport"
	"github.com/go-chi/chi/v5"
)

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
	r.Get("/targeting/{type}/{slug}", h.Landing)
}

func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	req := Request{
		Type:  chi.URLParam(r, "type"),
		Slug:  chi.URLParam(r, "slug"),
		City:  r.URL.Query().Get("city"),
		State: r.URL.Query().Get("state"),
	}

	// Related case studies are part of the payload, so entries live under
	// the case study prefix and are dropped with every case study write.
	key := cache.RequestKey(casestudies.CachePrefix, "targeting/"+req.Type+"/"+req.Slug,
		cache.Only(r.URL.Query(), "city", "state"))
	if httpx.ServeFromCache(w, r, h.cache, key) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	landing, err := h.service.Landing(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownType), errors.Is(err, ErrNotFound):
			log.Warn("targeting: not found", slog.String("type", req.Type), slog.String("slug", req.Slug))
			transport.WriteError(w, http.StatusNotFound, "landing page not found", nil)
		default:
			log.Error("targeting: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}
	httpx.StoreAndWrite(w, r, h.cache, log, key, h.ttl, landing)
}
