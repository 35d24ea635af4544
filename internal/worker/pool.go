package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bebop/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueTicketArchive = "jobs:ticket_archive"
	QueueEmail         = "jobs:email"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// TicketArchivePayload asks the workers to produce and mail the archival PDF
// copy of a Z-ticket. The close operation itself never waits on this.
type TicketArchivePayload struct {
	SessionID string `json:"session_id"`
	ClosedAt  string `json:"closed_at"`
	Ticket    string `json:"ticket"`
}

// EmailPayload is a ready-to-send ticket report.
type EmailPayload struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentPath string `json:"attachment_path"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueTicketArchive pushes a Z-ticket archival job to Redis.
func (d *Dispatcher) EnqueueTicketArchive(ctx context.Context, payload TicketArchivePayload) error {
	return d.enqueue(ctx, QueueTicketArchive, "ticket_archive", payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// TicketArchiveWorker renders the PDF copy of a closed session's Z-ticket and
// forwards it to the email queue when a back-office address is configured.
type TicketArchiveWorker struct {
	dispatcher      *Dispatcher
	storagePath     string
	backofficeEmail string
}

func NewTicketArchiveWorker(dispatcher *Dispatcher, storagePath, backofficeEmail string) *TicketArchiveWorker {
	return &TicketArchiveWorker{
		dispatcher:      dispatcher,
		storagePath:     storagePath,
		backofficeEmail: backofficeEmail,
	}
}

func (w *TicketArchiveWorker) Handle(ctx context.Context, p TicketArchivePayload) error {
	path, err := infra.GenerateZTicketPDF(p.SessionID, p.Ticket, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("session_id", p.SessionID).Str("path", path).Msg("z-ticket archived")

	if w.backofficeEmail == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailPayload{
		To:             w.backofficeEmail,
		Subject:        fmt.Sprintf("Z ticket — session %s closed %s", p.SessionID, p.ClosedAt),
		Body:           p.Ticket,
		AttachmentPath: path,
	})
}

// EmailWorker delivers ticket reports through the SMTP mailer. Deliveries go
// through a circuit breaker: once the relay has failed repeatedly, jobs fast-
// fail into the retry/DLQ path instead of blocking a worker on SMTP timeouts.
type EmailWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{
		mailer:  mailer,
		breaker: infra.NewCircuitBreaker(infra.DefaultCBConfig()),
	}
}

func (w *EmailWorker) Handle(_ context.Context, p EmailPayload) error {
	return w.breaker.Execute(func() error {
		return w.mailer.SendTicketReport(p.To, p.Subject, p.Body, p.AttachmentPath)
	})
}

// Handlers bundles the per-queue workers wired at the composition root.
type Handlers struct {
	TicketArchive *TicketArchiveWorker
	Email         *EmailWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *Handlers, id int) {
	queues := []string{QueueTicketArchive, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	switch queue {
	case QueueTicketArchive:
		var p TicketArchivePayload
		if err = json.Unmarshal(job.Payload, &p); err == nil {
			err = handlers.TicketArchive.Handle(ctx, p)
		}
	case QueueEmail:
		var p EmailPayload
		if err = json.Unmarshal(job.Payload, &p); err == nil {
			err = handlers.Email.Handle(ctx, p)
		}
	default:
		log.Warn().Str("queue", queue).Msg("job from unknown queue dropped")
		return
	}
	if err == nil {
		return
	}

	job.Attempts++
	if job.Attempts >= maxAttempts {
		SendToDLQ(ctx, rdb, queue, job, err.Error())
		return
	}
	log.Warn().Str("queue", queue).Int("attempts", job.Attempts).Err(err).Msg("job failed, re-enqueueing")
	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		log.Error().Err(mErr).Msg("failed to re-marshal job for retry")
		return
	}
	if pErr := rdb.LPush(ctx, queue, encoded).Err(); pErr != nil {
		log.Error().Err(pErr).Str("queue", queue).Msg("failed to re-enqueue job")
	}
}
