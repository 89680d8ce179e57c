package blog

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

const (
	listCachePrefix = "blog:list"
	postCachePrefix = "blog:post"
)

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
	r.Get("/blog", h.PublicList)
	r.Get("/blog/{id}", h.PublicGet)

	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Post("/blog", h.AdminCreate)
		r.Put("/blog/{id}", h.AdminUpdate)
		r.Delete("/blog/{id}", h.AdminDelete)
		r.Get("/admin/blog", h.AdminList)
	})
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	query := r.URL.Query()
	limit, offset, err := httpx.ParseLimitOffset(query, 50, 100)
	if err != nil {
		log.Warn("blog list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	key := cache.RequestKey(listCachePrefix, r.URL.Path, cache.Only(query, "limit", "offset", "category", "tag"))
	if httpx.ServeFromCache(w, r, h.cache, key) {
		return
	}

	filter := ListFilter{
		Category: strings.TrimSpace(query.Get("category")),
		Tag:      strings.TrimSpace(query.Get("tag")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	posts, total, err := h.service.List(ctx, filter, limit, offset)
	if err != nil {
		log.Error("blog list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("blog list: ok", slog.Int("count", len(posts)))
	httpx.StoreAndWrite(w, r, h.cache, log, key, h.ttl, map[string]interface{}{
		"items": posts,
		"total": total,
	})
}

func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	key := cache.RequestKey(postCachePrefix, id, nil)
	if httpx.ServeFromCache(w, r, h.cache, key) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := h.service.View(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("blog get: not found", slog.String("id", id))
			transport.WriteError(w, http.StatusNotFound, "blog post not found", nil)
			return
		}
		log.Error("blog get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("blog get: ok", slog.String("slug", view.Slug))
	httpx.StoreAndWrite(w, r, h.cache, log, key, h.ttl, view)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	filter := ListFilter{
		Category:      strings.TrimSpace(r.URL.Query().Get("category")),
		IncludeDrafts: true,
	}
	posts, total, err := h.service.List(ctx, filter, limit, offset)
	if err != nil {
		log.Error("admin blog list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin blog list: ok", slog.Int("count", len(posts)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  posts,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	req, ok := h.decode(w, r, log, "create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	post, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeError(w, log, "create", "", err)
		return
	}

	h.invalidate(r, log)
	log.Info("blog create: ok", slog.String("post_id", post.ID), slog.String("slug", post.Slug))
	transport.WriteJSON(w, http.StatusCreated, post)
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

	post, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeError(w, log, "update", id, err)
		return
	}

	h.invalidate(r, log)
	log.Info("blog update: ok", slog.String("post_id", id), slog.String("slug", post.Slug))
	transport.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeError(w, log, "delete", id, err)
		return
	}

	h.invalidate(r, log)
	log.Info("blog delete: ok", slog.String("post_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (UpsertRequest, bool) {
	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("blog " + op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("blog " + op + ": validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return req, false
	}
	return req, true
}

// invalidate drops list and post entries; a slug change makes any single
// post key stale.
func (h *Handler) invalidate(r *http.Request, log *slog.Logger) {
	httpx.Invalidate(r, h.cache, log, listCachePrefix+":", postCachePrefix+":")
}

func (h *Handler) writeError(w http.ResponseWriter, log *slog.Logger, op, id string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn("blog "+op+": not found", slog.String("post_id", id))
		transport.WriteError(w, http.StatusNotFound, "blog post not found", nil)
	case errors.Is(err, ErrSlugExists):
		log.Warn("blog " + op + ": slug exists")
		transport.WriteError(w, http.StatusConflict, "slug already exists", nil)
	case errors.Is(err, ErrInvalidSlug):
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"slug": "invalid"})
	default:
		log.Error("blog "+op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}
