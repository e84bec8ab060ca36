package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parseNow = time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC)

func TestParseNote_CheckboxLines(t *testing.T) {
	note := Note{
		Path: "Projects/Alpha.md",
		Body: `# Alpha

Some prose that is not a task.

- [ ] review design doc
- [x] send kickoff invite
* [/] draft milestone plan
- not a checkbox
- [ ]
`,
	}

	tasks := ParseNote(note, parseNow)
	require.Len(t, tasks, 3)

	assert.Equal(t, "review design doc", tasks[0].Text)
	assert.Equal(t, " ", tasks[0].Status)
	assert.Equal(t, "Projects/Alpha.md", tasks[0].Folder)
	assert.Equal(t, parseNow, tasks[0].Created)

	assert.Equal(t, "send kickoff invite", tasks[1].Text)
	assert.Equal(t, "x", tasks[1].Status)

	assert.Equal(t, "draft milestone plan", tasks[2].Text)
	assert.Equal(t, "/", tasks[2].Status)
}

func TestParseNote_InlineMetadata(t *testing.T) {
	t.Run("due and priority tokens", func(t *testing.T) {
		note := Note{Path: "p.md", Body: "- [ ] file taxes @due(2026-05-20) @priority(1)"}
		tasks := ParseNote(note, parseNow)
		require.Len(t, tasks, 1)

		assert.Equal(t, "file taxes", tasks[0].Text)
		require.NotNil(t, tasks[0].DueDate)
		assert.Equal(t, time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC), *tasks[0].DueDate)
		assert.Equal(t, 1, tasks[0].Priority)
	})

	t.Run("relative due dates", func(t *testing.T) {
		note := Note{Path: "p.md", Body: "- [ ] water plants @due(tomorrow)"}
		tasks := ParseNote(note, parseNow)
		require.Len(t, tasks, 1)
		require.NotNil(t, tasks[0].DueDate)
		assert.Equal(t, time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC), *tasks[0].DueDate)
	})

	t.Run("bang priority", func(t *testing.T) {
		note := Note{Path: "p.md", Body: "- [ ] deploy api !p2"}
		tasks := ParseNote(note, parseNow)
		require.Len(t, tasks, 1)
		assert.Equal(t, "deploy api", tasks[0].Text)
		assert.Equal(t, 2, tasks[0].Priority)
	})

	t.Run("token priority wins over bang", func(t *testing.T) {
		note := Note{Path: "p.md", Body: "- [ ] deploy api @priority(1) !p3"}
		tasks := ParseNote(note, parseNow)
		require.Len(t, tasks, 1)
		assert.Equal(t, 1, tasks[0].Priority)
	})

	t.Run("created token overrides ingestion time", func(t *testing.T) {
		note := Note{Path: "p.md", Body: "- [ ] old task @created(2025-01-15)"}
		tasks := ParseNote(note, parseNow)
		require.Len(t, tasks, 1)
		assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), tasks[0].Created)
	})

	t.Run("unparsable values dropped silently", func(t *testing.T) {
		note := Note{Path: "p.md", Body: "- [ ] review @due(someday) @priority(9)"}
		tasks := ParseNote(note, parseNow)
		require.Len(t, tasks, 1)
		assert.Equal(t, "review", tasks[0].Text)
		assert.Nil(t, tasks[0].DueDate)
		assert.Zero(t, tasks[0].Priority)
	})
}

func TestParseNote_Tags(t *testing.T) {
	note := Note{Path: "p.md", Body: "- [ ] fix login #work #Urgent #work"}
	tasks := ParseNote(note, parseNow)
	require.Len(t, tasks, 1)

	assert.Equal(t, "fix login", tasks[0].Text)
	assert.Equal(t, []string{"work", "urgent"}, tasks[0].Tags)
}

func TestParseNote_MetadataOnlyLineDropped(t *testing.T) {
	note := Note{Path: "p.md", Body: "- [ ] @due(2026-05-20) #work"}
	tasks := ParseNote(note, parseNow)
	assert.Empty(t, tasks)
}
