package handler

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"agrorelay/internal/config"
	"agrorelay/internal/logger"
	"agrorelay/internal/model"
	"agrorelay/internal/service"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type indexData struct {
	DeviceID    string
	Command     string
	Autocapture model.Autocapture
	LastResult  string
	StreamFPS   int
	Commands    []string
}

// IndexHandler renders the operator UI for ?pi_id= (default device otherwise).
func IndexHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		deviceID := deviceIDFromQuery(r, cfg)
		data := indexData{
			DeviceID:  deviceID,
			StreamFPS: cfg.StreamFPS,
			Commands:  []string{model.CommandCapture, model.CommandPumpOn, model.CommandPumpOff, model.CommandIdle},
		}

		var err error
		if data.Command, err = manager.Command(deviceID); err != nil {
			logger.Error("Error reading command for %s: %v", deviceID, err)
		}
		if data.Autocapture, err = manager.Autocapture(deviceID); err != nil {
			logger.Error("Error reading autocapture for %s: %v", deviceID, err)
		}
		if result, found, err := manager.LastResult(deviceID); err != nil {
			logger.Error("Error reading result for %s: %v", deviceID, err)
		} else if found {
			if encoded, err := json.MarshalIndent(result, "", "  "); err == nil {
				data.LastResult = string(encoded)
			}
		}

		setNoCache(w)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, data); err != nil {
			logger.Error("Error rendering index: %v", err)
		}
	}
}
