package model

// Result keys shared by the analyzers and the UI.
const (
	ResultKeyCrop       = "crop"
	ResultKeyCropType   = "crop_type"
	ResultKeyStatus     = "status"
	ResultKeyConfidence = "confidence"
	ResultKeySuggestion = "suggestion"
	ResultKeyRipeness   = "ripeness"
	ResultKeyError      = "error"
)

// StatusError marks a degraded result produced when analysis failed.
const StatusError = "error"

// Result is the latest analysis outcome for one device: a flat map of
// scalar values, overwritten on every upload.
type Result map[string]interface{}

// ErrorResult builds the degraded result returned when analysis fails.
func ErrorResult(err error) Result {
	msg := "analysis failed"
	if err != nil {
		msg = err.Error()
	}
	return Result{
		ResultKeyStatus:     StatusError,
		ResultKeyConfidence: 0.0,
		ResultKeyError:      msg,
	}
}

// Status returns the status value, empty when missing or not a string.
func (r Result) Status() string {
	s, _ := r[ResultKeyStatus].(string)
	return s
}

// IsError reports whether the result is the degraded error shape.
func (r Result) IsError() bool {
	return r.Status() == StatusError
}

// Clone returns a shallow copy so callers cannot mutate stored results.
func (r Result) Clone() Result {
	if r == nil {
		return nil
	}
	out := make(Result, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
