package jobs

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
	"agency-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

const CachePrefix = "jobs"

type Handler struct {
	service *Service
	val     *validation.Validator
	cache   cache.Cache
	ttl     time.Duration
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, c cache.Cache, ttl time.Duration, log *slog.Logger) *Handler {
	return &Handler{service: service, val: val, cache: c, ttl: ttl, log: log}
}

func (h *Handler) Routes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/jobs", h.PublicList)
	r.Get("/jobs/{id}", h.PublicGet)

	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Get("/jobs/all", h.AdminList)
		r.Post("/jobs", h.AdminCreate)
		r.Put("/jobs/{id}", h.AdminUpdate)
		r.Delete("/jobs/{id}", h.AdminDelete)
	})
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	key := cache.RequestKey(CachePrefix, "active", nil)
	if httpx.ServeFromCache(w, r, h.cache, key) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	jobs, err := h.service.ListActive(ctx)
	if err != nil {
		log.Error("jobs list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("jobs list: ok", slog.Int("count", len(jobs)))
	httpx.StoreAndWrite(w, r, h.cache, log, key, h.ttl, map[string]interface{}{"items": jobs})
}

func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	key := cache.RequestKey(CachePrefix, "job/"+id, nil)
	if httpx.ServeFromCache(w, r, h.cache, key) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("jobs get: not found", slog.String("job_id", id))
			transport.WriteError(w, http.StatusNotFound, "job not found", nil)
			return
		}
		log.Error("jobs get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	httpx.StoreAndWrite(w, r, h.cache, log, key, h.ttl, view)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	jobs, err := h.service.ListAll(ctx)
	if err != nil {
		log.Error("admin jobs list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": jobs, "total": len(jobs)})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	req, ok := h.decode(w, r, log, "create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	job, err := h.service.Create(ctx, req)
	if err != nil {
		log.Error("admin jobs create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	httpx.Invalidate(r, h.cache, log, CachePrefix+":")
	log.Info("admin jobs create: ok", slog.String("job_id", job.ID))
	transport.WriteJSON(w, http.StatusCreated, job)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	req, ok := h.decode(w, r, log, "update")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	job, err := h.service.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin jobs update: not found", slog.String("job_id", id))
			transport.WriteError(w, http.StatusNotFound, "job not found", nil)
			return
		}
		log.Error("admin jobs update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	httpx.Invalidate(r, h.cache, log, CachePrefix+":")
	log.Info("admin jobs update: ok", slog.String("job_id", id))
	transport.WriteJSON(w, http.StatusOK, job)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin jobs delete: not found", slog.String("job_id", id))
			transport.WriteError(w, http.StatusNotFound, "job not found", nil)
			return
		}
		log.Error("admin jobs delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	httpx.Invalidate(r, h.cache, log, CachePrefix+":")
	log.Info("admin jobs delete: ok", slog.String("job_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (UpsertRequest, bool) {
	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin jobs " + op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin jobs " + op + ": validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return req, false
	}
	return req, true
}
