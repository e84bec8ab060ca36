package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/taskquery/core"
)

// Key prefixes for the task keyspace. Primary records live under
// taskRecordPrefix; the remaining prefixes are secondary indexes whose
// values hold the task ID.
const (
	taskRecordPrefix  = "tskrec"
	taskCreatedPrefix = "tskcre"
	taskTagPrefix     = "tsktag"
	taskFolderPrefix  = "tskfld"
)

// makeTaskKey generates a key for a task record by ID.
func makeTaskKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", taskRecordPrefix, id))
}

// makeTaskCreatedKey generates a composite key for the creation-date index.
// Format: prefix:timestamp:id, both fixed-width BigEndian so lexicographic
// order equals chronological order.
func makeTaskCreatedKey(created time.Time, id core.ID) []byte {
	prefix := []byte(taskCreatedPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(created.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialTaskCreatedKey generates a partial key for creation-date
// range scans.
func makePartialTaskCreatedKey(created time.Time) []byte {
	prefix := []byte(taskCreatedPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(created.UnixMicro()))
	return buf
}

// makeTaskTagKey generates a composite key for the tag index.
// Format: prefix:tag:id. The tag is NUL-terminated so one tag can never
// scan into another tag's range ("go" vs "golang").
func makeTaskTagKey(tag string, id core.ID) []byte {
	partial := makePartialTaskTagKey(tag)
	buf := make([]byte, len(partial)+8)
	offset := copy(buf, partial)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialTaskTagKey generates the scan prefix for one tag.
func makePartialTaskTagKey(tag string) []byte {
	prefix := taskTagPrefix + ":"
	buf := make([]byte, len(prefix)+len(tag)+1)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], tag)
	buf[offset] = 0
	return buf
}

// makeTaskFolderKey generates a composite key for the folder index.
// Format: prefix:folder:id, folder NUL-terminated like tags.
func makeTaskFolderKey(folder string, id core.ID) []byte {
	partial := makePartialTaskFolderKey(folder)
	buf := make([]byte, len(partial)+8)
	offset := copy(buf, partial)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialTaskFolderKey generates the scan prefix for one folder.
func makePartialTaskFolderKey(folder string) []byte {
	prefix := taskFolderPrefix + ":"
	buf := make([]byte, len(prefix)+len(folder)+1)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], folder)
	buf[offset] = 0
	return buf
}
