package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/poiesic/taskquery/core"
)

var (
	checkboxPattern = regexp.MustCompile(`^\s*[-*+]\s+\[(.)\]\s+(.*)$`)
	metadataPattern = regexp.MustCompile(`@([a-zA-Z0-9_-]+)\(([^)]*)\)`)
	tagPattern      = regexp.MustCompile(`#([\p{L}\p{N}_/-]+)`)
	bangPattern     = regexp.MustCompile(`(?i)\s!p([1-4])\b`)
	spacePattern    = regexp.MustCompile(`\s{2,}`)
)

// Note is one markdown document handed to the parser. Path doubles as
// the folder of every task found in the body.
type Note struct {
	Path string
	Body string
}

// ParseNote extracts the checkbox task lines from a note body. Each
// line of the form `- [<marker>] text` becomes one task: inline
// `@due(...)`, `@priority(...)` or `!pN`, and `@created(...)` tokens
// plus `#tags` are lifted into task fields and stripped from the text.
// Lines whose text is empty after stripping are dropped. The creation
// time defaults to now when no `@created` token is present.
func ParseNote(note Note, now time.Time) []*core.Task {
	var tasks []*core.Task
	for _, line := range strings.Split(note.Body, "\n") {
		m := checkboxPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		task := parseTaskLine(m[1], m[2], note.Path, now)
		if task != nil {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func parseTaskLine(marker, body, folder string, now time.Time) *core.Task {
	task := &core.Task{
		Status:  marker,
		Folder:  folder,
		Created: now,
	}

	body = metadataPattern.ReplaceAllStringFunc(body, func(match string) string {
		sub := metadataPattern.FindStringSubmatch(match)
		key := strings.ToLower(strings.TrimSpace(sub[1]))
		value := strings.TrimSpace(sub[2])
		if value == "" {
			return ""
		}

		switch key {
		case "due", "deadline":
			if t, ok := parseDate(value, now); ok {
				task.DueDate = &t
			}
		case "priority", "prio":
			if p, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(value), "p")); err == nil && p >= 1 && p <= 4 {
				task.Priority = p
			}
		case "created":
			if t, ok := parseDate(value, now); ok {
				task.Created = t
			}
		}
		return ""
	})

	body = bangPattern.ReplaceAllStringFunc(body, func(match string) string {
		sub := bangPattern.FindStringSubmatch(match)
		if p, err := strconv.Atoi(sub[1]); err == nil && task.Priority == 0 {
			task.Priority = p
		}
		return ""
	})

	for _, m := range tagPattern.FindAllStringSubmatch(body, -1) {
		tag := strings.ToLower(m[1])
		if !containsString(task.Tags, tag) {
			task.Tags = append(task.Tags, tag)
		}
	}
	body = tagPattern.ReplaceAllString(body, "")

	body = strings.TrimSpace(spacePattern.ReplaceAllString(body, " "))
	if body == "" {
		return nil
	}
	task.Text = body
	return task
}

// parseDate resolves a metadata date value. Relative shortcuts come
// first, everything else goes through dateparse in the clock's
// location. Results are truncated to the start of day.
func parseDate(value string, now time.Time) (time.Time, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "today":
		return startOfDay(now), true
	case "tomorrow":
		return startOfDay(now.AddDate(0, 0, 1)), true
	case "yesterday":
		return startOfDay(now.AddDate(0, 0, -1)), true
	}

	parsed, err := dateparse.ParseIn(value, now.Location())
	if err != nil {
		return time.Time{}, false
	}
	return startOfDay(parsed), true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
