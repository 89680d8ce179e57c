package training

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agency-backend/internal/httpx"
	"agency-backend/internal/middleware"
	"agency-backend/internal/transport"
	"agency-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{service: service, val: val, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/training/clients", h.ListClients)
	r.Get("/training/course/{id}", h.GetCourse)
	r.Post("/training/progress/module", h.UpdateModule)
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clients, err := h.service.ListClients(ctx)
	if err != nil {
		log.Error("training clients: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": clients})
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := h.service.GetCourse(ctx, id, r.URL.Query().Get("client"))
	if err != nil {
		h.writeError(w, log, "training course", err)
		return
	}
	log.Info("training course: ok", slog.String("course_id", id))
	transport.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)

	var req ModuleProgressRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("training progress: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("training progress: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.service.CompleteModule(ctx, req)
	if err != nil {
		h.writeError(w, log, "training progress", err)
		return
	}
	log.Info("training progress: ok",
		slog.String("client_id", progress.ClientID),
		slog.String("course_id", progress.CourseID),
		slog.Int("percentage", progress.Percentage),
	)
	transport.WriteJSON(w, http.StatusOK, progress)
}

func (h *Handler) writeError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrClientNotFound), errors.Is(err, ErrCourseNotFound), errors.Is(err, ErrModuleNotFound):
		log.Warn(op+": not found", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusNotFound, err.Error(), nil)
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}
