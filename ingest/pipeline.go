package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/taskquery/storage"
)

// Pipeline parses notes and stores the extracted tasks. Notes are
// processed concurrently on a worker pool; a note that fails to store
// is logged and skipped, it never fails the batch.
type Pipeline struct {
	taskRepository storage.TaskRepository
	pool           *ants.Pool
	wg             sync.WaitGroup
	logger         *slog.Logger
	now            func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithClock overrides the clock used for default creation times.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline over a task repository.
func NewPipeline(taskRepository storage.TaskRepository, opts ...Option) (*Pipeline, error) {
	if taskRepository == nil {
		return nil, ErrTaskRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		taskRepository: taskRepository,
		pool:           pool,
		logger:         slog.Default(),
		now:            time.Now,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest parses and stores a batch of notes asynchronously. It returns
// once every note has been submitted to the pool; call Wait to block
// until the batch has been fully processed. Per-note failures are
// logged, not returned.
func (p *Pipeline) Ingest(ctx context.Context, notes ...Note) error {
	for _, note := range notes {
		note := note
		p.wg.Add(1)
		err := p.pool.Submit(func() {
			defer p.wg.Done()
			p.ingestNote(ctx, note)
		})
		if err != nil {
			// Pool unavailable, fall back to inline processing.
			p.ingestNote(ctx, note)
			p.wg.Done()
		}
	}
	return nil
}

// IngestSync parses and stores a batch of notes on the calling
// goroutine, returning the number of tasks stored. Per-note failures
// are still logged and skipped.
func (p *Pipeline) IngestSync(ctx context.Context, notes ...Note) (int, error) {
	stored := 0
	for _, note := range notes {
		stored += p.ingestNote(ctx, note)
	}
	return stored, nil
}

// Wait blocks until all asynchronously submitted notes have been
// processed.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

func (p *Pipeline) ingestNote(ctx context.Context, note Note) int {
	tasks := ParseNote(note, p.now())
	if len(tasks) == 0 {
		return 0
	}

	added, err := p.taskRepository.AddTasks(ctx, tasks...)
	if err != nil {
		p.logger.Error("error storing tasks from note",
			"path", note.Path, "tasks", len(tasks), "err", err)
		return 0
	}
	p.logger.Debug("ingested note", "path", note.Path, "tasks", len(added))
	return len(added)
}

// Release releases the worker pool after draining in-flight notes.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.wg.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
}
