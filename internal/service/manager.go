package service

import (
	"errors"
	"fmt"
	"time"

	"agrorelay/internal/config"
	"agrorelay/internal/dto"
	"agrorelay/internal/logger"
	"agrorelay/internal/model"
	"agrorelay/internal/observability"
	"agrorelay/internal/repository"
	"agrorelay/internal/service/ai"
	"agrorelay/internal/service/storage"

	"github.com/google/uuid"
)

var (
	// ErrEmptyImage is returned for uploads without image bytes.
	ErrEmptyImage = errors.New("no image")
	// ErrInvalidInterval is returned for non-positive autocapture intervals.
	ErrInvalidInterval = errors.New("autocapture interval must be positive")
	// ErrStorage wraps failures to persist the uploaded image.
	ErrStorage = errors.New("failed to store image")
)

// Notifier receives device state changes, typically the WebSocket hub.
type Notifier interface {
	Publish(event dto.Event)
}

type noopNotifier struct{}

func (noopNotifier) Publish(dto.Event) {}

// UploadRequest is one image handed in by a device.
type UploadRequest struct {
	DeviceID string
	Crop     string
	Image    []byte
}

// UploadReceipt identifies a stored upload and carries its analysis.
type UploadReceipt struct {
	UploadID string
	Result   model.Result
}

// Manager ties the command mailbox, image intake, analysis stage, result
// cache and image server together.
type Manager struct {
	state    repository.StateStore
	images   *storage.ImageStore
	analyzer *ai.Guarded
	notifier Notifier
	metrics  *observability.Metrics
	logger   *logger.Logger

	streamMaxFPS      int
	streamMaxDuration time.Duration
}

// NewManager wires the relay services. notifier and metrics may be nil.
func NewManager(state repository.StateStore, images *storage.ImageStore, analyzer *ai.Guarded,
	notifier Notifier, metrics *observability.Metrics, config *config.Config, logger *logger.Logger) *Manager {
	if notifier == nil {
		notifier = noopNotifier{}
	}

	maxFPS := config.StreamMaxFPS
	if maxFPS < 1 {
		maxFPS = 1
	}

	return &Manager{
		state:             state,
		images:            images,
		analyzer:          analyzer,
		notifier:          notifier,
		metrics:           metrics,
		logger:            logger,
		streamMaxFPS:      maxFPS,
		streamMaxDuration: config.StreamMaxDuration,
	}
}

// SetCommand overwrites the mailbox slot of a device and returns the stored value.
func (m *Manager) SetCommand(deviceID, command string) (string, error) {
	if err := m.state.SetCommand(deviceID, command); err != nil {
		return "", err
	}
	m.metrics.CommandSet()
	m.logger.Info("Command for %s set to %s", deviceID, command)
	m.publishCommand(deviceID, command)
	return command, nil
}

// Command returns the pending command of a device, IDLE when none was set.
func (m *Manager) Command(deviceID string) (string, error) {
	command, found, err := m.state.GetCommand(deviceID)
	if err != nil {
		return "", err
	}
	if !found {
		return model.CommandIdle, nil
	}
	return command, nil
}

// SetAutocapture stores the autocapture configuration and writes AUTO_ON or
// AUTO_OFF into the mailbox so the device notices on its next poll.
func (m *Manager) SetAutocapture(deviceID string, enabled bool, interval float64) (model.Autocapture, string, error) {
	if interval <= 0 {
		return model.Autocapture{}, "", fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}

	cfg := model.Autocapture{Enabled: enabled, Interval: interval}
	if err := m.state.SetAutocapture(deviceID, cfg); err != nil {
		return model.Autocapture{}, "", err
	}

	command := cfg.SentinelCommand()
	if err := m.state.SetCommand(deviceID, command); err != nil {
		return model.Autocapture{}, "", err
	}

	m.logger.Info("Autocapture for %s: enabled=%t interval=%.2fs", deviceID, cfg.Enabled, cfg.Interval)
	m.notifier.Publish(dto.Event{Type: dto.EventAutocapture, DeviceID: deviceID, Autocapture: &cfg, At: time.Now()})
	m.publishCommand(deviceID, command)
	return cfg, command, nil
}

// Autocapture returns the configuration of a device or the disabled default.
func (m *Manager) Autocapture(deviceID string) (model.Autocapture, error) {
	cfg, found, err := m.state.GetAutocapture(deviceID)
	if err != nil {
		return model.Autocapture{}, err
	}
	if !found {
		return model.DefaultAutocapture(), nil
	}
	return cfg, nil
}

// Upload stores the image as the device's latest, analyzes it, caches the
// result and clears the pending command. Analysis failures are reported in
// the result, not as an error.
func (m *Manager) Upload(req UploadRequest) (*UploadReceipt, error) {
	if len(req.Image) == 0 {
		m.metrics.UploadFinished(observability.OutcomeClientError)
		return nil, ErrEmptyImage
	}

	uploadID := uuid.NewString()

	if err := m.images.Save(req.DeviceID, req.Image); err != nil {
		if errors.Is(err, storage.ErrInvalidDeviceID) {
			m.metrics.UploadFinished(observability.OutcomeClientError)
			return nil, err
		}
		m.metrics.UploadFinished(observability.OutcomeStorageError)
		m.logger.Error("Upload %s from %s: %v", uploadID, req.DeviceID, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	start := time.Now()
	result := m.analyzer.Analyze(req.Image, ai.Hints{Crop: req.Crop})
	m.metrics.AnalysisFinished(time.Since(start).Seconds(), result.IsError())
	if result.IsError() {
		m.logger.Warning("Analysis of upload %s from %s failed: %v", uploadID, req.DeviceID, result[model.ResultKeyError])
	}

	if err := m.state.SetResult(req.DeviceID, result); err != nil {
		m.metrics.UploadFinished(observability.OutcomeStorageError)
		return nil, fmt.Errorf("failed to cache result: %w", err)
	}
	if err := m.state.SetCommand(req.DeviceID, model.CommandIdle); err != nil {
		m.metrics.UploadFinished(observability.OutcomeStorageError)
		return nil, fmt.Errorf("failed to reset command: %w", err)
	}

	m.metrics.UploadFinished(observability.OutcomeOK)
	m.logger.Info("Upload %s from %s: %d bytes, status=%s", uploadID, req.DeviceID, len(req.Image), result.Status())

	m.notifier.Publish(dto.Event{Type: dto.EventResult, DeviceID: req.DeviceID, Result: result, At: time.Now()})
	m.publishCommand(req.DeviceID, model.CommandIdle)

	return &UploadReceipt{UploadID: uploadID, Result: result}, nil
}

// LastResult returns the cached analysis of a device; found is false when
// the device never uploaded.
func (m *Manager) LastResult(deviceID string) (model.Result, bool, error) {
	return m.state.GetResult(deviceID)
}

// LatestImage returns the current image bytes or storage.ErrImageNotFound.
func (m *Manager) LatestImage(deviceID string) ([]byte, error) {
	return m.images.Load(deviceID)
}

func (m *Manager) publishCommand(deviceID, command string) {
	m.notifier.Publish(dto.Event{Type: dto.EventCommand, DeviceID: deviceID, Command: command, At: time.Now()})
}
