package model

// Commands understood by the field controller. The mailbox stores any string;
// these are the values the operator UI and the server itself emit.
const (
	CommandIdle    = "IDLE"
	CommandCapture = "CAPTURE"
	CommandPumpOn  = "PUMP_ON"
	CommandPumpOff = "PUMP_OFF"
	CommandAutoOn  = "AUTO_ON"
	CommandAutoOff = "AUTO_OFF"
)

// DefaultAutocaptureInterval is the interval in seconds reported for devices
// that never configured autocapture.
const DefaultAutocaptureInterval = 1.0

// Autocapture is the per-device timer configuration.
type Autocapture struct {
	Enabled  bool    `json:"enabled"`
	Interval float64 `json:"interval"`
}

// DefaultAutocapture returns the configuration of an unknown device.
func DefaultAutocapture() Autocapture {
	return Autocapture{Enabled: false, Interval: DefaultAutocaptureInterval}
}

// SentinelCommand is the command written alongside an autocapture change so a
// polling device sees the transition on its next command read.
func (a Autocapture) SentinelCommand() string {
	if a.Enabled {
		return CommandAutoOn
	}
	return CommandAutoOff
}
