// Package handlers serves the endpoints that belong to no single content
// domain: admin sessions, site-wide structured data and health.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"agency-backend/internal/auth"
	"agency-backend/internal/config"
	"agency-backend/internal/middleware"
	"agency-backend/internal/seo"
	"agency-backend/internal/transport"
	"agency-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

// Check probes one dependency for the health endpoint.
type Check func(ctx context.Context) error

type Server struct {
	Cfg       *config.Config
	Val       *validation.Validator
	Log       *slog.Logger
	Passwords *auth.PasswordChecker
	Tokens    *auth.Manager
	Checks    map[string]Check
	Site      seo.Site
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	return middleware.WithRequest(s.Log, r)
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/site", s.SiteJSONLD)
	r.Post("/admin/login", s.AdminLogin)
	r.Post("/admin/refresh", s.AdminRefresh)
	r.Post("/admin/logout", s.AdminLogout)
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health reports 200 when every registered dependency answers, 503 otherwise.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.Checks))
	for name := range s.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK
	if len(names) > 0 {
		resp.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := s.Checks[name](ctx); err != nil {
			log.Warn("health: check failed", slog.String("check", name), slog.String("error", err.Error()))
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	transport.WriteJSON(w, status, resp)
}

// SiteJSONLD returns the Organization and WebSite objects every page embeds.
func (s *Server) SiteJSONLD(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, seo.NewGraph(seo.NewOrganization(s.Site), seo.NewWebSite(s.Site)))
}
