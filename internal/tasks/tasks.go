package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SaniatAzam/invoice-generator/internal/render"
	"github.com/SaniatAzam/invoice-generator/internal/services"
	"github.com/SaniatAzam/invoice-generator/internal/storage"
)

// TaskType defines the type of a background task.
const (
	TypeInvoiceArchive = "invoice:archive"
	TypeInvoicePurge   = "invoice:purge"
)

const archiveQueue = "default"

// InvoiceTaskPayload identifies the invoice a task works on.
type InvoiceTaskPayload struct {
	InvoiceNo string `json:"invoiceNo"`
}

// --- Task Client (Enqueuing tasks) ---

func redisOpt(rdb *redis.Client) asynq.RedisClientOpt {
	opts := rdb.Options()
	return asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
}

// NewClient creates an asynq client sharing the connection settings of rdb.
func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(redisOpt(rdb))
}

// IAsynqClient is the part of *asynq.Client used to enqueue tasks.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ArchiveQueue implements services.IArchiveQueue on top of asynq.
type ArchiveQueue struct {
	client IAsynqClient
}

var _ services.IArchiveQueue = (*ArchiveQueue)(nil)

// NewArchiveQueue wraps an asynq client.
func NewArchiveQueue(client IAsynqClient) *ArchiveQueue {
	return &ArchiveQueue{client: client}
}

// NewInvoiceTask builds an archive or purge task for invoiceNo.
func NewInvoiceTask(taskType, invoiceNo string) (*asynq.Task, error) {
	payload, err := json.Marshal(InvoiceTaskPayload{InvoiceNo: invoiceNo})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, payload), nil
}

func (q *ArchiveQueue) enqueue(ctx context.Context, taskType, invoiceNo string) error {
	task, err := NewInvoiceTask(taskType, invoiceNo)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(archiveQueue),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s for invoice %s: %w", taskType, invoiceNo, err)
	}
	log.Debug().Str("task", taskType).Str("id", info.ID).Str("invoiceNo", invoiceNo).Msg("enqueued task")
	return nil
}

// EnqueueArchive schedules rendering and upload of the invoice document.
func (q *ArchiveQueue) EnqueueArchive(ctx context.Context, invoiceNo string) error {
	return q.enqueue(ctx, TypeInvoiceArchive, invoiceNo)
}

// EnqueuePurge schedules removal of the archived document.
func (q *ArchiveQueue) EnqueuePurge(ctx context.Context, invoiceNo string) error {
	return q.enqueue(ctx, TypeInvoicePurge, invoiceNo)
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	invoiceService services.IInvoiceService
	renderer       render.IInvoiceRenderer
	archive        storage.IInvoiceArchive
}

func NewTaskProcessor(
	invoiceService services.IInvoiceService,
	renderer render.IInvoiceRenderer,
	archive storage.IInvoiceArchive,
) *TaskProcessor {
	return &TaskProcessor{
		invoiceService: invoiceService,
		renderer:       renderer,
		archive:        archive,
	}
}

// SetupServer configures the asynq server and registers the task handlers.
// The caller starts it with srv.Start(mux) and stops it with srv.Shutdown().
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		redisOpt(rdb),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				archiveQueue: 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("task", task.Type()).RawJSON("payload", task.Payload()).Msg("task failed")
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInvoiceArchive, processor.HandleArchiveTask)
	mux.HandleFunc(TypeInvoicePurge, processor.HandlePurgeTask)

	return srv, mux
}

// --- Task Handlers ---

func decodePayload(t *asynq.Task) (InvoiceTaskPayload, error) {
	var payload InvoiceTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if payload.InvoiceNo == "" {
		return payload, fmt.Errorf("%s payload has no invoiceNo: %w", t.Type(), asynq.SkipRetry)
	}
	return payload, nil
}

// HandleArchiveTask renders the stored invoice and uploads it.
func (p *TaskProcessor) HandleArchiveTask(ctx context.Context, t *asynq.Task) error {
	payload, err := decodePayload(t)
	if err != nil {
		return err
	}

	invoice, err := p.invoiceService.Get(ctx, payload.InvoiceNo)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			// Deleted before the worker got to it.
			log.Info().Str("invoiceNo", payload.InvoiceNo).Msg("invoice gone, skipping archive")
			return fmt.Errorf("invoice %s not found: %w", payload.InvoiceNo, asynq.SkipRetry)
		}
		return err
	}

	pdf, err := p.renderer.RenderInvoicePDF(ctx, invoice)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	key, err := p.archive.PutInvoicePDF(ctx, invoice.InvoiceNo, pdf)
	if err != nil {
		return err
	}

	log.Info().Str("invoiceNo", invoice.InvoiceNo).Str("key", key).Msg("invoice archived")
	return nil
}

// HandlePurgeTask removes the archived document of a deleted invoice.
func (p *TaskProcessor) HandlePurgeTask(ctx context.Context, t *asynq.Task) error {
	payload, err := decodePayload(t)
	if err != nil {
		return err
	}

	if err := p.archive.DeleteInvoicePDF(ctx, payload.InvoiceNo); err != nil {
		return err
	}

	log.Info().Str("invoiceNo", payload.InvoiceNo).Msg("archived invoice purged")
	return nil
}
