package models

import "time"

// Request statuses are the exact French labels persisted in the store and
// rendered in the dashboards. The update endpoint rejects anything else.
const (
	StatusTodo       = "A faire"
	StatusInProgress = "En cours"
	StatusDone       = "Terminé"
)

// Statuses returns the three allowed statuses in lifecycle order.
func Statuses() []string {
	return []string{StatusTodo, StatusInProgress, StatusDone}
}

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Request is a communication-service request submitted through the intake
// wizard. ID and CreatedAt are store-assigned; only Status is ever mutated
// after creation.
type Request struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Demandeur   string    `gorm:"not null" json:"demandeur"`
	Email       string    `gorm:"index" json:"email"`
	Service     string    `gorm:"index" json:"service"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Status      string    `gorm:"not null;default:'A faire';index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
