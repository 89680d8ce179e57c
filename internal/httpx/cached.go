package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/transport"
)

// ServeFromCache writes the cached body for key and reports whether it did.
func ServeFromCache(w http.ResponseWriter, r *http.Request, c cache.Cache, key string) bool {
	if c == nil {
		return false
	}
	cached, ok, err := c.Get(r.Context(), key)
	if err != nil || !ok {
		return false
	}
	w.Header().Set("X-Cache", "HIT")
	transport.WriteRawJSON(w, http.StatusOK, cached)
	return true
}

// StoreAndWrite encodes payload once, stores it under key and writes it.
// Cache failures are logged and never fail the request.
func StoreAndWrite(w http.ResponseWriter, r *http.Request, c cache.Cache, log *slog.Logger, key string, ttl time.Duration, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		transport.WriteError(w, http.StatusInternalServerError, "encode error", nil)
		return
	}
	if c != nil {
		if err := c.Set(r.Context(), key, body, ttl); err != nil && log != nil {
			log.Warn("cache set failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	w.Header().Set("X-Cache", "MISS")
	transport.WriteRawJSON(w, http.StatusOK, append(body, '\n'))
}

// Invalidate drops every cached read under the given prefixes after a
// successful write.
func Invalidate(r *http.Request, c cache.Cache, log *slog.Logger, prefixes ...string) {
	if c == nil {
		return
	}
	for _, p := range prefixes {
		if err := c.DeletePrefix(r.Context(), p); err != nil && log != nil {
			log.Warn("cache invalidate failed", slog.String("prefix", p), slog.String("error", err.Error()))
		}
	}
}
