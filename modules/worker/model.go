package worker

import (
	"time"

	"inspiration-poster-server/modules/poster"
)

const (
	// QueueKey - Redis list the worker blocks on
	QueueKey = "poster:jobs:queue"

	// jobTTL - queued job records expire after a day
	jobTTL = 24 * time.Hour
)

// Job statuses
const (
	StatusPending       = "pending"
	StatusProcessing    = "processing"
	StatusCompleted     = "completed"
	StatusFailed        = "failed"
	StatusUserCancelled = "user_cancelled"
)

// PosterJob - one queued generation request, stored as JSON in Redis
type PosterJob struct {
	JobID        string               `json:"job_id"`
	Date         string               `json:"date"`
	Theme        string               `json:"theme"`
	Status       string               `json:"status"`
	Poster       *poster.PosterRecord `json:"poster,omitempty"`
	ArchivePath  string               `json:"archive_path,omitempty"`
	ErrorCode    string               `json:"error_code,omitempty"`
	ErrorMessage string               `json:"error_message,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	StartedAt    *time.Time           `json:"started_at,omitempty"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
}

// Terminal - true once the job can no longer change state
func (j *PosterJob) Terminal() bool {
	switch j.Status {
	case StatusCompleted, StatusFailed, StatusUserCancelled:
		return true
	}
	return false
}

// JobKey - Redis key holding the job record
func JobKey(jobID string) string {
	return "poster:job:" + jobID
}
