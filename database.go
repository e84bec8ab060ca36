package taskquery

import (
	"log/slog"

	"github.com/poiesic/taskquery/ai"
	"github.com/poiesic/taskquery/ai/openai"
	"github.com/poiesic/taskquery/ingest"
	"github.com/poiesic/taskquery/search"
	"github.com/poiesic/taskquery/storage"
	"github.com/poiesic/taskquery/storage/badger"
)

// Database is the top-level handle over the task index: one badger
// backend, a task repository, and an optional AI provider shared by the
// engines and pipelines created from it.
type Database struct {
	backend  *badger.Backend
	taskRepo storage.TaskRepository
	provider ai.Provider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig builds an OpenAI-compatible provider from the given
// configuration. Without this option or WithProvider the database runs
// heuristic-only.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider injects a pre-built AI provider. Takes precedence over
// WithAIConfig. The database owns the provider and closes it.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the backend in memory, discarding everything on
// close. Used by tests.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the task index at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	taskRepo, err := badger.NewTaskRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil && options.aiConfig != nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			taskRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:  backend,
		taskRepo: taskRepo,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the provider, the repository, and the backend, in
// that order.
func (db *Database) Close() error {
	if db.provider != nil {
		if err := db.provider.Close(); err != nil {
			db.logger.Error("error closing AI provider", "err", err)
		}
	}

	if err := db.taskRepo.Close(); err != nil {
		db.logger.Error("error closing task repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// TaskRepository returns the underlying task repository.
func (db *Database) TaskRepository() storage.TaskRepository {
	return db.taskRepo
}

// NewEngine creates a search engine over this database's repository and
// provider.
func (db *Database) NewEngine(opts ...search.EngineOption) (*search.Engine, error) {
	return search.NewEngine(db.taskRepo, db.provider, opts...)
}

// NewIngestPipeline creates an ingestion pipeline over this database's
// repository.
func (db *Database) NewIngestPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(db.taskRepo, opts...)
}
