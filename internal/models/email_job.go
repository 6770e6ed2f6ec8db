package models

import "time"

// Email job statuses. Failed jobs stay in the table as a dead letter.
const (
	JobPending = "pending"
	JobRetry   = "retry"
	JobSent    = "sent"
	JobFailed  = "failed"
)

// EmailJob is a durable notification enqueued in the same transaction as the
// request it describes. The outbox worker delivers it with retries; the
// submission response never depends on delivery.
type EmailJob struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"size:36;uniqueIndex"` // idempotency key, reused as Message-ID
	RequestID   uint   `gorm:"index"`
	Recipients  string `gorm:"not null"` // comma separated
	Subject     string `gorm:"not null"`
	Body        string // HTML
	Status      string `gorm:"not null;default:'pending';index"`
	Attempts    int
	MaxAttempts int `gorm:"not null;default:5"`
	NextTryAt   *time.Time
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
