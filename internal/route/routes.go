package route

import (
	"net/http"

	"agrorelay/internal/config"
	"agrorelay/internal/handler"
	"agrorelay/internal/logger"
	"agrorelay/internal/middleware"
	"agrorelay/internal/service"
	hub "agrorelay/internal/service/websocket"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers the device API, operator UI, image endpoints,
// metrics and log endpoints, and wraps the mux with request logging.
func SetupRoutes(manager *service.Manager, hubService *hub.HubService, cfg *config.Config,
	logger *logger.Logger, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	// Operator UI
	mux.HandleFunc("GET /", handler.IndexHandler(manager, cfg, logger))

	// Command mailbox
	mux.HandleFunc("POST /api/set_command", handler.SetCommandHandler(manager, cfg, logger))
	mux.HandleFunc("GET /api/command", handler.GetCommandHandler(manager, cfg, logger))
	mux.HandleFunc("POST /api/set_autocapture", handler.SetAutocaptureHandler(manager, cfg, logger))
	mux.HandleFunc("GET /api/get_autocapture", handler.GetAutocaptureHandler(manager, cfg, logger))

	// Image intake and results
	mux.HandleFunc("POST /api/upload", handler.UploadHandler(manager, cfg, logger))
	mux.HandleFunc("GET /api/last_result", handler.LastResultHandler(manager, cfg, logger))
	mux.HandleFunc("GET /api/events", handler.EventsHandler(hubService, cfg, logger))

	// Image server
	mux.HandleFunc("GET /last_image/{pi_id}", handler.LastImageHandler(manager, cfg, logger))
	mux.HandleFunc("GET /mjpeg_stream/{pi_id}", handler.MJPEGStreamHandler(manager, cfg, logger))

	// Log endpoints
	mux.HandleFunc("GET /logs/{level}", handler.ShowLogsHandler(logger))
	mux.HandleFunc("POST /logs/{level}/clear", handler.ClearLogsHandler(logger))

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return middleware.LoggingMiddleware(mux, logger)
}
