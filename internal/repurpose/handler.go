package repurpose

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agency-backend/internal/middleware"
	"agency-backend/internal/transport"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Routes mounts the generators behind admin auth; drafts are not public.
func (h *Handler) Routes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Get("/repurpose/linkedin/{type}/{id}", h.serve("linkedin", func(ctx context.Context, kind, id string) (interface{}, error) {
			return h.service.LinkedIn(ctx, kind, id)
		}))
		r.Get("/repurpose/carousel/{type}/{id}", h.serve("carousel", func(ctx context.Context, kind, id string) (interface{}, error) {
			return h.service.Carousel(ctx, kind, id)
		}))
		r.Get("/repurpose/video/{type}/{id}", h.serve("video", func(ctx context.Context, kind, id string) (interface{}, error) {
			return h.service.Video(ctx, kind, id)
		}))
	})
}

type generator func(ctx context.Context, kind, id string) (interface{}, error)

func (h *Handler) serve(format string, gen generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.WithRequest(h.log, r).With(slog.String("format", format))
		kind := strings.TrimSpace(chi.URLParam(r, "type"))
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		out, err := gen(ctx, kind, id)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnknownType):
				log.Warn("repurpose: unknown type", slog.String("type", kind))
				transport.WriteError(w, http.StatusBadRequest, "unknown content type", map[string]string{"type": kind})
			case errors.Is(err, ErrSourceNotFound):
				log.Warn("repurpose: source not found", slog.String("type", kind), slog.String("id", id))
				transport.WriteError(w, http.StatusNotFound, "content not found", nil)
			default:
				log.Error("repurpose: load failed", slog.String("error", err.Error()))
				transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			}
			return
		}

		log.Info("repurpose: ok", slog.String("type", kind), slog.String("id", id))
		transport.WriteJSON(w, http.StatusOK, out)
	}
}
