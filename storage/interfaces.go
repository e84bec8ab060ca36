package storage

import (
	"context"
	"time"

	"github.com/poiesic/taskquery/core"
)

// Prefilter narrows the candidate snapshot handed to the query pipeline.
// A zero Prefilter matches every stored task. It is deliberately coarse;
// precise filtering happens downstream on the snapshot.
type Prefilter struct {
	// Tags restricts candidates to tasks carrying at least one of these
	// tags (served from the tag index).
	Tags []string

	// DueBefore restricts candidates to tasks with a due date before the
	// given instant. Tasks without a due date are excluded.
	DueBefore *time.Time
}

// Empty reports whether the prefilter matches everything.
func (p *Prefilter) Empty() bool {
	return len(p.Tags) == 0 && p.DueBefore == nil
}

// TaskRepository provides operations for managing task records.
// Implementations must be thread-safe and support concurrent access.
type TaskRepository interface {
	// AddTasks upserts one or more tasks. Tasks with ID=0 get a
	// content-based ID derived from folder and text. InsertedAt and
	// UpdatedAt are populated. Returns the tasks with IDs and
	// timestamps filled in.
	AddTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error)

	// UpdateTasks updates existing tasks in place, refreshing UpdatedAt.
	// Returns ErrNotFound if any task does not exist.
	UpdateTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error)

	// DeleteTasks removes tasks and their index entries by ID.
	// Returns ErrNotFound if any task does not exist.
	DeleteTasks(ctx context.Context, ids ...core.ID) error

	// GetTask retrieves a single task by ID.
	// Returns ErrNotFound if the task does not exist.
	GetTask(ctx context.Context, id core.ID) (*core.Task, error)

	// GetTasks retrieves multiple tasks by ID. Missing IDs are skipped,
	// not reported as errors.
	GetTasks(ctx context.Context, ids ...core.ID) ([]*core.Task, error)

	// ListTasks retrieves tasks ordered by creation date descending,
	// up to limit. A limit <= 0 means no limit.
	ListTasks(ctx context.Context, limit int) ([]*core.Task, error)

	// FindCandidates retrieves the candidate snapshot for one query
	// pipeline pass. Results are independent copies; mutating them does
	// not affect stored data.
	FindCandidates(ctx context.Context, pre Prefilter) ([]*core.Task, error)

	// DeleteByFolder removes every task whose folder matches exactly.
	// Used when a note is re-ingested or removed. Returns the number of
	// tasks deleted.
	DeleteByFolder(ctx context.Context, folder string) (int, error)

	// WithTransaction executes fn within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases repository resources.
	Close() error
}
