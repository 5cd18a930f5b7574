package handler

import (
	"net/http"
	"os"
	"slices"

	"agrorelay/internal/logger"
)

// ShowLogsHandler serves GET /logs/{level} as text/plain.
func ShowLogsHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level := r.PathValue("level")
		if !slices.Contains(logger.Levels, level) {
			http.NotFound(w, r)
			return
		}

		filePath := log.FilePath(level)
		if _, err := os.Stat(filePath); os.IsNotExist(err) || log.Dir() == "" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Log file not found: " + level + ".log"))
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, filePath)
	}
}

// ClearLogsHandler serves POST /logs/{level}/clear.
func ClearLogsHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level := r.PathValue("level")
		if !slices.Contains(logger.Levels, level) {
			http.NotFound(w, r)
			return
		}

		if err := log.CleanLogs(level); err != nil {
			http.Error(w, "Unable to clear log", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
