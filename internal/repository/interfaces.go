package repository

import "agrorelay/internal/model"

// CommandRepository stores the command mailbox, one slot per device.
type CommandRepository interface {
	SetCommand(deviceID, command string) error
	// GetCommand reports found=false for devices that never received a command.
	GetCommand(deviceID string) (command string, found bool, err error)
}

// AutocaptureRepository stores the per-device autocapture configuration.
type AutocaptureRepository interface {
	SetAutocapture(deviceID string, cfg model.Autocapture) error
	GetAutocapture(deviceID string) (cfg model.Autocapture, found bool, err error)
}

// ResultRepository stores the latest analysis result per device.
type ResultRepository interface {
	SetResult(deviceID string, result model.Result) error
	GetResult(deviceID string) (result model.Result, found bool, err error)
}

// StateStore groups every per-device mapping behind one backend.
type StateStore interface {
	CommandRepository
	AutocaptureRepository
	ResultRepository

	Close() error
}
