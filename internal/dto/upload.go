package dto

import "agrorelay/internal/model"

// UploadResponse is returned by a successful POST /api/upload, including
// uploads whose analysis degraded to an error-shaped result.
type UploadResponse struct {
	OK       bool         `json:"ok"`
	DeviceID string       `json:"pi_id"`
	UploadID string       `json:"upload_id"`
	Result   model.Result `json:"result"`
}

// LastResultResponse is returned by GET /api/last_result; Result is null
// for devices that never uploaded.
type LastResultResponse struct {
	DeviceID string       `json:"pi_id"`
	Result   model.Result `json:"result"`
}

// ErrorResponse is the body of every 4xx/5xx API answer.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
