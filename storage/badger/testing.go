package badger

import "github.com/poiesic/taskquery/storage"

// NewMemoryRepository creates an in-memory task repository for testing.
// Caller must close both the repo and the backend when done.
func NewMemoryRepository() (storage.TaskRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewTaskRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return repo, backend, nil
}
