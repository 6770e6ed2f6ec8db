package outbox

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/requestflow/requestflow/internal/models"
)

// DefaultMaxAttempts bounds delivery retries before a job is dead-lettered.
const DefaultMaxAttempts = 5

// Enqueue persists one notification job. Call it inside the transaction that
// creates the request row so the two are durable together; delivery happens
// later in the worker.
func Enqueue(tx *gorm.DB, requestID uint, recipients []string, subject, body string) error {
	job := models.EmailJob{
		Key:         uuid.NewString(),
		RequestID:   requestID,
		Recipients:  strings.Join(recipients, ","),
		Subject:     subject,
		Body:        body,
		Status:      models.JobPending,
		MaxAttempts: DefaultMaxAttempts,
	}
	return tx.Create(&job).Error
}

// BackoffDuration returns the exponential backoff for attempt n, capped at
// five minutes.
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > 5*time.Minute {
		return 5 * time.Minute
	}
	return d
}
