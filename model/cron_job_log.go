package model

import "time"

// Cron job statuses
const (
	CronStatusRunning   = "running"
	CronStatusCompleted = "completed"
	CronStatusFailed    = "failed"
)

// CronJobLog records one run of a scheduled job
type CronJobLog struct {
	JobName     string     `json:"job_name"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Duration    int64      `json:"duration_ms"`
	Message     string     `json:"message,omitempty"`
	ErrorMsg    string     `json:"error_msg,omitempty"`
}
