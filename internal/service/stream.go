package service

import (
	"context"
	"time"

	"agrorelay/internal/service/storage"
)

// Stream re-reads the latest image of a device every 1/fps seconds and hands
// each frame to emit, whether or not the file changed. Ticks without a
// readable image are skipped. The loop ends when ctx is done, when the
// configured stream budget runs out, or when emit fails; the emit error is
// returned in the last case.
func (m *Manager) Stream(ctx context.Context, deviceID string, fps int, emit func(frame []byte) error) error {
	if err := storage.ValidateDeviceID(deviceID); err != nil {
		return err
	}

	fps = m.ClampFPS(fps)

	if m.streamMaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.streamMaxDuration)
		defer cancel()
	}

	m.metrics.StreamOpened()
	defer m.metrics.StreamClosed()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		if frame, err := m.images.Load(deviceID); err == nil {
			if err := emit(frame); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ClampFPS bounds a requested frame rate to [1, STREAM_MAX_FPS].
func (m *Manager) ClampFPS(fps int) int {
	if fps < 1 {
		return 1
	}
	if fps > m.streamMaxFPS {
		return m.streamMaxFPS
	}
	return fps
}
