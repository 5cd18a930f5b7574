package handler

import (
	"encoding/json"
	"net/http"

	"agrorelay/internal/config"
	"agrorelay/internal/dto"
	"agrorelay/internal/logger"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// writeError answers with the {ok:false, error} envelope.
func writeError(w http.ResponseWriter, logger *logger.Logger, status int, msg string) {
	writeJSON(w, logger, status, dto.ErrorResponse{OK: false, Error: msg})
}

// deviceIDFromQuery reads pi_id from the query string, falling back to the
// configured default device.
func deviceIDFromQuery(r *http.Request, cfg *config.Config) string {
	if id := r.URL.Query().Get("pi_id"); id != "" {
		return id
	}
	return cfg.DefaultDeviceID
}

// setNoCache marks a response as never cacheable.
func setNoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}
