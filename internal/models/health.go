package models

import "time"

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2026-03-20T13:00:00Z"`
	Database  string    `json:"database" example:"ok"`
	Redis     string    `json:"redis" example:"ok"`
}
