package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored record types. The MUS format keeps
// badger values compact and stable across releases. Timestamps are
// serialized as Unix microseconds.

// IDMUS serializes IDs.
var IDMUS = idSer{}

// TaskMUS serializes Tasks.
var TaskMUS = taskSer{}

type idSer struct{}

func (idSer) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idSer) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type taskSer struct{}

func (taskSer) Marshal(t Task, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(t.Id), bs)
	n += ord.String.Marshal(t.Text, bs[n:])
	n += ord.String.Marshal(t.Status, bs[n:])
	n += varint.Int.Marshal(t.Priority, bs[n:])
	n += ord.Bool.Marshal(t.DueDate != nil, bs[n:])
	if t.DueDate != nil {
		n += varint.Int64.Marshal(t.DueDate.UnixMicro(), bs[n:])
	}
	n += varint.Int64.Marshal(t.Created.UnixMicro(), bs[n:])
	n += varint.Int.Marshal(len(t.Tags), bs[n:])
	for _, tag := range t.Tags {
		n += ord.String.Marshal(tag, bs[n:])
	}
	n += ord.String.Marshal(t.Folder, bs[n:])
	n += varint.Int64.Marshal(t.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(t.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (taskSer) Unmarshal(bs []byte) (t Task, n int, err error) {
	var (
		n1 int
		id uint64
	)
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	t.Id = ID(id)

	t.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.Status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.Priority, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var hasDue bool
	hasDue, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if hasDue {
		var micro int64
		micro, n1, err = varint.Int64.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		due := time.UnixMicro(micro).UTC()
		t.DueDate = &due
	}

	var micro int64
	micro, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.Created = time.UnixMicro(micro).UTC()

	var tagCount int
	tagCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if tagCount > 0 {
		t.Tags = make([]string, tagCount)
		for i := 0; i < tagCount; i++ {
			t.Tags[i], n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}

	t.Folder, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	micro, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.InsertedAt = time.UnixMicro(micro).UTC()

	micro, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.UpdatedAt = time.UnixMicro(micro).UTC()
	return
}

func (taskSer) Size(t Task) (size int) {
	size = varint.Uint64.Size(uint64(t.Id))
	size += ord.String.Size(t.Text)
	size += ord.String.Size(t.Status)
	size += varint.Int.Size(t.Priority)
	size += ord.Bool.Size(t.DueDate != nil)
	if t.DueDate != nil {
		size += varint.Int64.Size(t.DueDate.UnixMicro())
	}
	size += varint.Int64.Size(t.Created.UnixMicro())
	size += varint.Int.Size(len(t.Tags))
	for _, tag := range t.Tags {
		size += ord.String.Size(tag)
	}
	size += ord.String.Size(t.Folder)
	size += varint.Int64.Size(t.InsertedAt.UnixMicro())
	size += varint.Int64.Size(t.UpdatedAt.UnixMicro())
	return size
}
