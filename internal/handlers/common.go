package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pencilhero402/rift-rewind/internal/ingest"
	"github.com/pencilhero402/rift-rewind/internal/riot"
	"github.com/pencilhero402/rift-rewind/internal/store"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]bool{
		"postgres": h.pg.Ping(ctx) == nil,
		"redis":    h.redis.Ping(ctx).Err() == nil,
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps failure taxonomy to HTTP codes: unknown keys are 404,
// everything else is a 500 with the detail kept in the logs.
func (h *Handler) serviceError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, riot.ErrNotFound),
		errors.Is(err, ingest.ErrPlayerNotFound):
		h.errorResponse(w, http.StatusNotFound, what+" not found")
	default:
		h.logger.Errorw("request failed", "what", what, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes and validates a JSON request body. A false return
// means the response has already been written.
func decodeBody[T any](h *Handler, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "missing or invalid fields: "+err.Error())
		return false
	}
	return true
}

// riotIDParams pulls the gameName/tagLine query pair, writing a 400 when
// either is missing.
func (h *Handler) riotIDParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	gameName := r.URL.Query().Get("gameName")
	tagLine := r.URL.Query().Get("tagLine")
	if gameName == "" || tagLine == "" {
		h.errorResponse(w, http.StatusBadRequest, "gameName and tagLine are required")
		return "", "", false
	}
	return gameName, tagLine, true
}
