package payload

import (
	"encoding/json"
	"fmt"
	"io"
)

// Status is the processing state reported while polling.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ProcessingResponse is the polling envelope returned by the processing service.
type ProcessingResponse struct {
	ProcessID     string  `json:"process_id"`
	Status        Status  `json:"status"`
	Progress      int     `json:"progress"` // 0..100
	Message       string  `json:"message"`
	AvatarData    *Avatar `json:"avatar_data,omitempty"`
	EstimatedTime *int    `json:"estimated_time,omitempty"` // seconds
}

// DecodeResponse parses a polling envelope. Progress is clamped to 0..100.
func DecodeResponse(r io.Reader) (*ProcessingResponse, error) {
	var resp ProcessingResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("parsing status: %w", err)
	}
	resp.Progress = min(max(resp.Progress, 0), 100)
	return &resp, nil
}

// Done reports whether polling can stop.
func (r *ProcessingResponse) Done() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// Completed returns the avatar of a completed response.
func (r *ProcessingResponse) Completed() (*Avatar, error) {
	switch r.Status {
	case StatusCompleted:
		if r.AvatarData == nil {
			return nil, fmt.Errorf("process %s completed without avatar data", r.ProcessID)
		}
		return r.AvatarData, nil
	case StatusFailed:
		return nil, fmt.Errorf("process %s failed: %s", r.ProcessID, r.Message)
	default:
		return nil, fmt.Errorf("process %s still %s (%d%%)", r.ProcessID, r.Status, r.Progress)
	}
}
