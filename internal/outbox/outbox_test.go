package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/requestflow/requestflow/internal/mailer"
	"github.com/requestflow/requestflow/internal/models"
)

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func setupOutboxDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:outbox_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Request{}, &models.EmailJob{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestEnqueueAndDeliver(t *testing.T) {
	db := setupOutboxDB(t)
	if err := Enqueue(db, 7, []string{"jean@x.com", "manager@requestflow.local"}, "Nouvelle Demande: Jean", "<p>corps</p>"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	var job models.EmailJob
	if err := db.First(&job).Error; err != nil {
		t.Fatalf("job row: %v", err)
	}
	if job.Status != models.JobPending {
		t.Fatalf("expected pending got %s", job.Status)
	}
	if job.Key == "" {
		t.Fatalf("missing idempotency key")
	}

	fs := &fakeSender{}
	w := NewWorker(db, fs, nil, time.Second)
	if n := w.RunOnce(context.Background()); n != 1 {
		t.Fatalf("expected 1 processed got %d", n)
	}
	if len(fs.sent) != 1 {
		t.Fatalf("expected 1 delivery got %d", len(fs.sent))
	}
	if len(fs.sent[0].To) != 2 || fs.sent[0].To[0] != "jean@x.com" {
		t.Fatalf("unexpected recipients: %v", fs.sent[0].To)
	}
	if fs.sent[0].ID != job.Key {
		t.Fatalf("message id should carry the job key")
	}
	if err := db.First(&job, job.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if job.Status != models.JobSent {
		t.Fatalf("expected sent got %s", job.Status)
	}
}

func TestDeliveryFailureSchedulesRetry(t *testing.T) {
	db := setupOutboxDB(t)
	if err := Enqueue(db, 1, []string{"a@b"}, "s", "b"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	fs := &fakeSender{err: errors.New("relay down")}
	w := NewWorker(db, fs, nil, time.Second)
	w.RunOnce(context.Background())

	var job models.EmailJob
	if err := db.First(&job).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if job.Status != models.JobRetry {
		t.Fatalf("expected retry got %s", job.Status)
	}
	if job.Attempts != 1 {
		t.Fatalf("expected 1 attempt got %d", job.Attempts)
	}
	if job.NextTryAt == nil || !job.NextTryAt.After(time.Now()) {
		t.Fatalf("expected future next_try_at, got %v", job.NextTryAt)
	}
	if job.LastError != "relay down" {
		t.Fatalf("unexpected last error: %s", job.LastError)
	}

	// Not due yet: a second run must not pick it up.
	if n := w.RunOnce(context.Background()); n != 0 {
		t.Fatalf("retry picked up before its backoff elapsed")
	}
}

func TestDeadLetterAfterMaxAttempts(t *testing.T) {
	db := setupOutboxDB(t)
	if err := Enqueue(db, 1, []string{"a@b"}, "s", "b"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	fs := &fakeSender{err: errors.New("permanent")}
	w := NewWorker(db, fs, nil, time.Second)
	for i := 0; i < DefaultMaxAttempts; i++ {
		// Force the job due again between runs.
		db.Model(&models.EmailJob{}).Where("status <> ?", models.JobFailed).Update("next_try_at", nil)
		w.RunOnce(context.Background())
	}
	var job models.EmailJob
	if err := db.First(&job).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if job.Status != models.JobFailed {
		t.Fatalf("expected failed got %s (attempts=%d)", job.Status, job.Attempts)
	}
	if job.Attempts != DefaultMaxAttempts {
		t.Fatalf("expected %d attempts got %d", DefaultMaxAttempts, job.Attempts)
	}
}

func TestBackoffDuration(t *testing.T) {
	if BackoffDuration(0) != time.Second {
		t.Fatalf("attempt 0 should be 1s")
	}
	if BackoffDuration(1) != 2*time.Second {
		t.Fatalf("attempt 1 should be 2s")
	}
	if BackoffDuration(30) != 5*time.Minute {
		t.Fatalf("backoff should cap at 5m")
	}
}
