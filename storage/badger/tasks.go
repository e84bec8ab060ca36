package badger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/taskquery/core"
	"github.com/poiesic/taskquery/storage"
)

// TaskRepository implements storage.TaskRepository for BadgerDB.
type TaskRepository struct {
	backend *Backend
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend *Backend) (*TaskRepository, error) {
	return &TaskRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *TaskRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TaskRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// taskID returns the task's content-based identity: same folder plus
// same text is the same task, so re-ingesting a note is an upsert.
func taskID(task *core.Task) core.ID {
	return core.IDFromContent(task.Folder + "\x00" + task.Text)
}

// AddTasks upserts one or more tasks.
func (r *TaskRepository) AddTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Stored timestamps have microsecond resolution.
		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, task := range tasks {
			if task.Id == 0 {
				task.Id = taskID(task)
			}

			key := makeTaskKey(task.Id)

			// An existing record keeps its InsertedAt and sheds its old
			// index entries before the new ones are written.
			old, err := r.readTask(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				task.InsertedAt = old.InsertedAt
				if err := r.deleteIndexes(tx, old); err != nil {
					return err
				}
			} else {
				task.InsertedAt = now
			}
			task.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalTask(task)); err != nil {
				return err
			}
			if err := r.writeIndexes(tx, task); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return tasks, err
}

// UpdateTasks updates existing tasks.
func (r *TaskRepository) UpdateTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, task := range tasks {
			key := makeTaskKey(task.Id)

			old, err := r.readTask(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			task.InsertedAt = old.InsertedAt
			task.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

			if err := tx.Set(key, storage.MarshalTask(task)); err != nil {
				return err
			}
			if err := r.deleteIndexes(tx, old); err != nil {
				return err
			}
			if err := r.writeIndexes(tx, task); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return tasks, err
}

// DeleteTasks removes tasks by their IDs.
func (r *TaskRepository) DeleteTasks(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeTaskKey(id)

			task, err := r.readTask(tx, key)
			if err != nil {
				return err
			}
			if task == nil {
				return storage.ErrNotFound
			}

			if err := r.deleteIndexes(tx, task); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetTask retrieves a single task by ID.
func (r *TaskRepository) GetTask(ctx context.Context, id core.ID) (*core.Task, error) {
	var result *core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readTask(tx, makeTaskKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetTasks retrieves multiple tasks by their IDs. Missing IDs are skipped.
func (r *TaskRepository) GetTasks(ctx context.Context, ids ...core.ID) ([]*core.Task, error) {
	var result []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			task, err := r.readTask(tx, makeTaskKey(id))
			if err != nil {
				return err
			}
			if task != nil {
				result = append(result, task)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListTasks retrieves tasks ordered by creation date descending.
func (r *TaskRepository) ListTasks(ctx context.Context, limit int) ([]*core.Task, error) {
	var results []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialTaskCreatedKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(taskCreatedPrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var taskId core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				taskId, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			task, err := r.readTask(tx, makeTaskKey(taskId))
			if err != nil {
				return err
			}
			if task != nil {
				results = append(results, task)
			}
		}
		return nil
	}, false)
	return results, err
}

// FindCandidates retrieves the candidate snapshot for one pipeline pass.
// With tags in the prefilter the tag index serves the scan (union across
// tags); otherwise every record is visited.
func (r *TaskRepository) FindCandidates(ctx context.Context, pre storage.Prefilter) ([]*core.Task, error) {
	var results []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		if len(pre.Tags) > 0 {
			results, err = r.candidatesByTags(tx, pre)
		} else {
			results, err = r.scanAll(tx, pre)
		}
		return err
	}, false)
	return results, err
}

// DeleteByFolder removes every task in a folder via the folder index.
func (r *TaskRepository) DeleteByFolder(ctx context.Context, folder string) (int, error) {
	deleted := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := r.idsByIndexPrefix(tx, makePartialTaskFolderKey(folder))
		if err != nil {
			return err
		}
		for _, id := range ids {
			key := makeTaskKey(id)
			task, err := r.readTask(tx, key)
			if err != nil {
				return err
			}
			if task == nil {
				continue
			}
			if err := r.deleteIndexes(tx, task); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
			deleted++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Helper methods

func (r *TaskRepository) candidatesByTags(tx *badger.Txn, pre storage.Prefilter) ([]*core.Task, error) {
	seen := make(map[core.ID]bool)
	var results []*core.Task
	for _, tag := range pre.Tags {
		ids, err := r.idsByIndexPrefix(tx, makePartialTaskTagKey(tag))
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			task, err := r.readTask(tx, makeTaskKey(id))
			if err != nil {
				return nil, err
			}
			if task != nil && matchesPrefilter(task, pre) {
				results = append(results, task)
			}
		}
	}
	return results, nil
}

func (r *TaskRepository) scanAll(tx *badger.Txn, pre storage.Prefilter) ([]*core.Task, error) {
	var results []*core.Task
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(taskRecordPrefix + ":")
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var task *core.Task
		err := iter.Item().Value(func(val []byte) error {
			var err error
			task, err = storage.UnmarshalTask(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		if task != nil && matchesPrefilter(task, pre) {
			results = append(results, task)
		}
	}
	return results, nil
}

func matchesPrefilter(task *core.Task, pre storage.Prefilter) bool {
	if pre.DueBefore != nil {
		if task.DueDate == nil || !task.DueDate.Before(*pre.DueBefore) {
			return false
		}
	}
	if len(pre.Tags) > 0 {
		found := false
		for _, want := range pre.Tags {
			if slices.Contains(task.Tags, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// idsByIndexPrefix collects the task IDs stored under one index prefix.
func (r *TaskRepository) idsByIndexPrefix(tx *badger.Txn, prefix []byte) ([]core.ID, error) {
	var ids []core.ID
	iter := tx.NewIterator(badger.DefaultIteratorOptions)
	defer iter.Close()

	for iter.Seek(prefix); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		if !bytes.HasPrefix(key, prefix) {
			break
		}
		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// readTask reads a task from the transaction. A missing key is (nil, nil).
func (r *TaskRepository) readTask(tx *badger.Txn, key []byte) (*core.Task, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var task *core.Task
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		task, unmarshalErr = storage.UnmarshalTask(val)
		return unmarshalErr
	})
	return task, err
}

// writeIndexes adds the creation-date, tag, and folder index entries.
func (r *TaskRepository) writeIndexes(tx *badger.Txn, task *core.Task) error {
	idVal := storage.MarshalID(task.Id)
	if err := tx.Set(makeTaskCreatedKey(task.Created, task.Id), idVal); err != nil {
		return err
	}
	for _, tag := range task.Tags {
		if err := tx.Set(makeTaskTagKey(tag, task.Id), idVal); err != nil {
			return err
		}
	}
	if task.Folder != "" {
		if err := tx.Set(makeTaskFolderKey(task.Folder, task.Id), idVal); err != nil {
			return err
		}
	}
	return nil
}

// deleteIndexes removes the index entries for a task.
func (r *TaskRepository) deleteIndexes(tx *badger.Txn, task *core.Task) error {
	if err := tx.Delete(makeTaskCreatedKey(task.Created, task.Id)); err != nil {
		return err
	}
	for _, tag := range task.Tags {
		if err := tx.Delete(makeTaskTagKey(tag, task.Id)); err != nil {
			return err
		}
	}
	if task.Folder != "" {
		if err := tx.Delete(makeTaskFolderKey(task.Folder, task.Id)); err != nil {
			return err
		}
	}
	return nil
}
