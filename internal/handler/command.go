package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"agrorelay/internal/config"
	"agrorelay/internal/dto"
	"agrorelay/internal/logger"
	"agrorelay/internal/model"
	"agrorelay/internal/service"
)

// SetCommandHandler handles POST /api/set_command from the operator UI.
func SetCommandHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SetCommandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.DeviceID == "" {
			req.DeviceID = cfg.DefaultDeviceID
		}
		if req.Command == "" {
			req.Command = model.CommandIdle
		}

		command, err := manager.SetCommand(req.DeviceID, req.Command)
		if err != nil {
			logger.Error("Error setting command for %s: %v", req.DeviceID, err)
			writeError(w, logger, http.StatusInternalServerError, "failed to store command")
			return
		}

		writeJSON(w, logger, http.StatusOK, dto.SetCommandResponse{Status: "ok", DeviceID: req.DeviceID, Command: command})
	}
}

// GetCommandHandler handles GET /api/command, polled by the device.
func GetCommandHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := deviceIDFromQuery(r, cfg)

		command, err := manager.Command(deviceID)
		if err != nil {
			logger.Error("Error reading command for %s: %v", deviceID, err)
			writeError(w, logger, http.StatusInternalServerError, "failed to read command")
			return
		}
		auto, err := manager.Autocapture(deviceID)
		if err != nil {
			logger.Error("Error reading autocapture for %s: %v", deviceID, err)
			writeError(w, logger, http.StatusInternalServerError, "failed to read autocapture")
			return
		}

		setNoCache(w)
		writeJSON(w, logger, http.StatusOK, dto.CommandResponse{DeviceID: deviceID, Command: command, Autocapture: auto})
	}
}

// SetAutocaptureHandler handles POST /api/set_autocapture.
func SetAutocaptureHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SetAutocaptureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.DeviceID == "" {
			req.DeviceID = cfg.DefaultDeviceID
		}
		interval := model.DefaultAutocaptureInterval
		if req.Interval != nil {
			interval = *req.Interval
		}

		auto, command, err := manager.SetAutocapture(req.DeviceID, req.Enable, interval)
		if errors.Is(err, service.ErrInvalidInterval) {
			writeError(w, logger, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			logger.Error("Error setting autocapture for %s: %v", req.DeviceID, err)
			writeError(w, logger, http.StatusInternalServerError, "failed to store autocapture")
			return
		}

		writeJSON(w, logger, http.StatusOK, dto.SetAutocaptureResponse{
			Status:      "ok",
			DeviceID:    req.DeviceID,
			Autocapture: auto,
			Command:     command,
		})
	}
}

// GetAutocaptureHandler handles GET /api/get_autocapture.
func GetAutocaptureHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := deviceIDFromQuery(r, cfg)

		auto, err := manager.Autocapture(deviceID)
		if err != nil {
			logger.Error("Error reading autocapture for %s: %v", deviceID, err)
			writeError(w, logger, http.StatusInternalServerError, "failed to read autocapture")
			return
		}

		setNoCache(w)
		writeJSON(w, logger, http.StatusOK, dto.AutocaptureResponse{DeviceID: deviceID, Enabled: auto.Enabled, Interval: auto.Interval})
	}
}
