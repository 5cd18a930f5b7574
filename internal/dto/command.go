package dto

import "agrorelay/internal/model"

// SetCommandRequest is the body of POST /api/set_command.
type SetCommandRequest struct {
	DeviceID string `json:"pi_id"`
	Command  string `json:"command"`
}

// SetCommandResponse echoes the stored command.
type SetCommandResponse struct {
	Status   string `json:"status"`
	DeviceID string `json:"pi_id"`
	Command  string `json:"command"`
}

// CommandResponse is what a polling device reads from GET /api/command.
type CommandResponse struct {
	DeviceID    string            `json:"pi_id"`
	Command     string            `json:"command"`
	Autocapture model.Autocapture `json:"autocapture"`
}

// SetAutocaptureRequest is the body of POST /api/set_autocapture. Interval
// is a pointer so a missing value can fall back to the default.
type SetAutocaptureRequest struct {
	DeviceID string   `json:"pi_id"`
	Enable   bool     `json:"enable"`
	Interval *float64 `json:"interval"`
}

// SetAutocaptureResponse echoes the stored configuration and sentinel command.
type SetAutocaptureResponse struct {
	Status      string            `json:"status"`
	DeviceID    string            `json:"pi_id"`
	Autocapture model.Autocapture `json:"autocapture"`
	Command     string            `json:"command"`
}

// AutocaptureResponse is returned by GET /api/get_autocapture.
type AutocaptureResponse struct {
	DeviceID string  `json:"pi_id"`
	Enabled  bool    `json:"enabled"`
	Interval float64 `json:"interval"`
}
