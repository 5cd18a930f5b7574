package handler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"

	"agrorelay/internal/config"
	"agrorelay/internal/logger"
	"agrorelay/internal/service"
	"agrorelay/internal/service/storage"
)

const frameBoundary = "frame"

// placeholderPNG is a transparent 1x1 image served while a device has no upload.
var placeholderPNG = func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

// LastImageHandler handles GET /last_image/{pi_id}.
func LastImageHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.PathValue("pi_id")

		data, err := manager.LatestImage(deviceID)
		switch {
		case errors.Is(err, storage.ErrInvalidDeviceID):
			http.Error(w, "Invalid pi_id", http.StatusBadRequest)
			return
		case errors.Is(err, storage.ErrImageNotFound):
			setNoCache(w)
			if cfg.MissingImage404 {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("X-Placeholder", "true")
			w.Write(placeholderPNG)
			return
		case err != nil:
			logger.Error("Error reading image for %s: %v", deviceID, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		setNoCache(w)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
	}
}

// MJPEGStreamHandler handles GET /mjpeg_stream/{pi_id}. The stream re-sends
// the latest image at ?fps= (default STREAM_FPS) until the client leaves or
// the server shuts down.
func MJPEGStreamHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.PathValue("pi_id")
		if err := storage.ValidateDeviceID(deviceID); err != nil {
			http.Error(w, "Invalid pi_id", http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming not supported", http.StatusInternalServerError)
			return
		}

		fps := cfg.StreamFPS
		if v, err := strconv.Atoi(r.URL.Query().Get("fps")); err == nil {
			fps = v
		}
		fps = manager.ClampFPS(fps)

		setNoCache(w)
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+frameBoundary)
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		logger.Info("MJPEG stream for %s opened at %d fps", deviceID, fps)

		err := manager.Stream(r.Context(), deviceID, fps, func(frame []byte) error {
			if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", frameBoundary, len(frame)); err != nil {
				return err
			}
			if _, err := w.Write(frame); err != nil {
				return err
			}
			if _, err := w.Write([]byte("\r\n")); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		})

		if err != nil {
			logger.Info("MJPEG stream for %s closed: %v", deviceID, err)
			return
		}
		logger.Info("MJPEG stream for %s closed", deviceID)
	}
}
