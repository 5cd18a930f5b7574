package handler

import (
	"errors"
	"io"
	"net/http"

	"agrorelay/internal/config"
	"agrorelay/internal/dto"
	"agrorelay/internal/logger"
	"agrorelay/internal/service"
	"agrorelay/internal/service/storage"
)

const multipartMemory = 8 << 20

// UploadHandler handles POST /api/upload: multipart form with pi_id, image
// and an optional crop hint.
func UploadHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, logger, http.StatusRequestEntityTooLarge, "image too large")
				return
			}
			writeError(w, logger, http.StatusBadRequest, "invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		deviceID := r.FormValue("pi_id")
		if deviceID == "" {
			writeError(w, logger, http.StatusBadRequest, "no pi_id")
			return
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "no image")
			return
		}
		defer file.Close()

		image, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Error reading image from %s: %v", deviceID, err)
			writeError(w, logger, http.StatusBadRequest, "unreadable image")
			return
		}

		receipt, err := manager.Upload(service.UploadRequest{
			DeviceID: deviceID,
			Crop:     r.FormValue("crop"),
			Image:    image,
		})
		switch {
		case errors.Is(err, service.ErrEmptyImage):
			writeError(w, logger, http.StatusBadRequest, "no image")
			return
		case errors.Is(err, storage.ErrInvalidDeviceID):
			writeError(w, logger, http.StatusBadRequest, "invalid pi_id")
			return
		case err != nil:
			logger.Error("Upload from %s failed: %v", deviceID, err)
			writeError(w, logger, http.StatusInternalServerError, "failed to save image")
			return
		}

		writeJSON(w, logger, http.StatusOK, dto.UploadResponse{
			OK:       true,
			DeviceID: deviceID,
			UploadID: receipt.UploadID,
			Result:   receipt.Result,
		})
	}
}

// LastResultHandler handles GET /api/last_result.
func LastResultHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := deviceIDFromQuery(r, cfg)

		result, _, err := manager.LastResult(deviceID)
		if err != nil {
			logger.Error("Error reading result for %s: %v", deviceID, err)
			writeError(w, logger, http.StatusInternalServerError, "failed to read result")
			return
		}

		setNoCache(w)
		writeJSON(w, logger, http.StatusOK, dto.LastResultResponse{DeviceID: deviceID, Result: result})
	}
}
