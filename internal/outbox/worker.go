package outbox

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/requestflow/requestflow/internal/mailer"
	"github.com/requestflow/requestflow/internal/models"
)

// Worker drains due email jobs on an interval. One goroutine is enough for
// this portal's volume; ordering by id keeps delivery roughly FIFO.
type Worker struct {
	db       *gorm.DB
	sender   mailer.Sender
	logger   *slog.Logger
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(db *gorm.DB, sender mailer.Sender, logger *slog.Logger, interval time.Duration) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Worker{db: db, sender: sender, logger: logger, interval: interval, stop: make(chan struct{})}
}

// Start launches the polling goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				w.logger.Info("outbox worker stopping")
				return
			case <-ctx.Done():
				w.logger.Info("context canceled, outbox worker exiting")
				return
			case <-ticker.C:
				w.RunOnce(ctx)
			}
		}
	}()
}

// Stop signals the worker to stop and waits for it.
func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

// RunOnce processes every currently due job and returns how many were handled.
func (w *Worker) RunOnce(ctx context.Context) int {
	n := 0
	for {
		job, err := w.next()
		if err != nil {
			w.logger.Error("fetch email job", "err", err)
			return n
		}
		if job == nil {
			return n
		}
		w.process(ctx, job)
		n++
	}
}

func (w *Worker) next() (*models.EmailJob, error) {
	var job models.EmailJob
	err := w.db.
		Where("status IN ?", []string{models.JobPending, models.JobRetry}).
		Where("next_try_at IS NULL OR next_try_at <= ?", time.Now()).
		Order("id").
		First(&job).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (w *Worker) process(ctx context.Context, job *models.EmailJob) {
	msg := mailer.Message{
		To:      strings.Split(job.Recipients, ","),
		Subject: job.Subject,
		HTML:    job.Body,
		ID:      job.Key,
	}
	err := w.sender.Send(ctx, msg)
	if err == nil {
		job.Status = models.JobSent
		job.NextTryAt = nil
		if upErr := w.db.Save(job).Error; upErr != nil {
			w.logger.Error("mark job sent", "id", job.ID, "err", upErr)
		}
		return
	}
	job.Attempts++
	job.LastError = err.Error()
	if job.Attempts >= job.MaxAttempts {
		// Dead letter: the row stays for inspection, delivery stops.
		job.Status = models.JobFailed
		job.NextTryAt = nil
		w.logger.Error("email job dead-lettered", "id", job.ID, "request", job.RequestID, "err", err)
	} else {
		t := time.Now().Add(BackoffDuration(job.Attempts))
		job.NextTryAt = &t
		job.Status = models.JobRetry
		w.logger.Warn("email job retry scheduled", "id", job.ID, "attempt", job.Attempts, "err", err)
	}
	if upErr := w.db.Save(job).Error; upErr != nil {
		w.logger.Error("update job", "id", job.ID, "err", upErr)
	}
}
