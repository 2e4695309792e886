package dto

import (
	"time"

	"github.com/yigit/gradedesk/internal/app/models"
)

// APIResponse wraps a successful console API payload
type APIResponse struct {
	Success   bool        `json:"success" example:"true"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewAPIResponse creates a success envelope around data
func NewAPIResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data, Timestamp: time.Now()}
}

// BackendProbeResponse reports whether the results backend answered a probe
type BackendProbeResponse struct {
	BackendURL string  `json:"backendUrl" example:"http://localhost:8000"`
	Reachable  bool    `json:"reachable" example:"true"`
	LatencyMS  float64 `json:"latencyMs" example:"12.5"`
	Courses    int     `json:"courses" example:"4"`
	Message    string  `json:"message,omitempty" example:"Could not reach backend"`
}

// StatusResponse is the status slot as exposed by the console API
type StatusResponse struct {
	models.Status
	InProgress bool `json:"inProgress"`
}
