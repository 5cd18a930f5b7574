package dto

import (
	"time"

	"agrorelay/internal/model"
)

// Event types pushed to operator UIs over /api/events.
const (
	EventCommand     = "command"
	EventAutocapture = "autocapture"
	EventResult      = "result"
)

// Event is a device state change. Only the field matching Type is set.
type Event struct {
	Type        string             `json:"type"`
	DeviceID    string             `json:"pi_id"`
	Command     string             `json:"command,omitempty"`
	Autocapture *model.Autocapture `json:"autocapture,omitempty"`
	Result      model.Result       `json:"result,omitempty"`
	At          time.Time          `json:"at"`
}
