package main

import (
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/taskquery"
	"github.com/poiesic/taskquery/ai"
	"github.com/poiesic/taskquery/core"
	"github.com/poiesic/taskquery/ingest"
	"github.com/poiesic/taskquery/search"
)

func main() {
	app := &cli.App{
		Name:  "taskquery",
		Usage: "Natural-language search over note-embedded tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Walk a directory of markdown notes into the index",
				ArgsUsage: "<dir>",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the task index directory",
						Required: true,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a query against the index",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the task index directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Comma-separated sort criteria (auto, relevance, dueDate, priority, created, alphabetical)",
						Value: "auto",
					},
					&cli.IntFlag{
						Name:  "threshold",
						Usage: "Explicit quality threshold percentage, 0 for adaptive",
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "Maximum number of results, 0 for no limit",
					},
					&cli.BoolFlag{
						Name:  "analyst",
						Usage: "Summarize the result set with the AI analyst",
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "OpenAI-compatible API host for query analysis",
					},
					&cli.StringFlag{
						Name:  "ai-model",
						Usage: "Model identifier for query analysis",
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print pipeline diagnostics after the results",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List indexed tasks, most recently created first",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the task index directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "Maximum number of tasks, 0 for all",
						Value: 50,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func importCommand(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("a notes directory is required")
	}

	db, err := taskquery.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingest pipeline: %w", err)
	}
	defer pipeline.Release()

	notes, err := collectNotes(dir)
	if err != nil {
		return err
	}

	stored, err := pipeline.IngestSync(c.Context, notes...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("imported %d tasks from %d notes\n", stored, len(notes))
	return nil
}

// collectNotes reads every markdown file under dir. Paths are stored
// relative to dir so the folder filter matches what the user sees.
func collectNotes(dir string) ([]ingest.Note, error) {
	var notes []ingest.Note
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(path), ".md") {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		notes = append(notes, ingest.Note{Path: filepath.ToSlash(rel), Body: string(body)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return notes, nil
}

func searchCommand(c *cli.Context) error {
	rawQuery := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(rawQuery) == "" {
		return fmt.Errorf("a query is required")
	}

	spec, err := parseSortSpec(c.String("sort"))
	if err != nil {
		return err
	}

	var dbOpts []taskquery.DatabaseOption
	if c.String("ai-host") != "" || c.String("ai-model") != "" {
		dbOpts = append(dbOpts, taskquery.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("ai-host")),
			ai.WithAnalyzerModel(c.String("ai-model")),
		)))
	}

	db, err := taskquery.NewDatabase(c.String("db"), dbOpts...)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	engine, err := db.NewEngine(search.WithConfig(search.NewConfig(
		search.WithSortSpec(spec),
		search.WithQualityThreshold(c.Int("threshold")),
		search.WithMaxResults(c.Int("max")),
		search.WithAnalyst(c.Bool("analyst")),
	)))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Release()

	result, err := engine.Search(c.Context, rawQuery)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(result.Tasks) == 0 {
		fmt.Println("no matching tasks")
		if result.Diagnostics.Reason != "" {
			fmt.Printf("  (%s)\n", result.Diagnostics.Reason)
		}
		return nil
	}

	for i, st := range result.Tasks {
		fmt.Printf("%2d. %s\n", i+1, formatTask(st.Task))
		if c.Bool("explain") {
			fmt.Printf("    score %.1f (relevance %.1f, due %.1f, priority %.1f)\n",
				st.CompositeScore, st.RelevanceScore, st.DueDateScore, st.PriorityScore)
		}
	}

	if result.Analysis != "" {
		fmt.Printf("\n%s\n", result.Analysis)
	}

	if c.Bool("explain") {
		d := result.Diagnostics
		fmt.Printf("\ncandidates %d, after filters %d, after gate %d (threshold %.1f of max %.1f)\n",
			d.CandidateCount, d.AfterKeywordFilter, d.AfterQualityGate, d.Threshold, d.MaxPossibleScore)
		if len(d.AppliedFilters) > 0 {
			fmt.Printf("filters: %s\n", strings.Join(d.AppliedFilters, ", "))
		}
		if d.UsedFallbackParser {
			fmt.Println("query parsed heuristically")
		}
	}
	return nil
}

func listCommand(c *cli.Context) error {
	db, err := taskquery.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	tasks, err := db.TaskRepository().ListTasks(c.Context, c.Int("max"))
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("the index is empty")
		return nil
	}
	for _, task := range tasks {
		fmt.Println(formatTask(task))
	}
	return nil
}

func parseSortSpec(value string) (core.SortSpec, error) {
	var spec core.SortSpec
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		criterion, ok := core.ParseSortCriterion(name)
		if !ok {
			return nil, fmt.Errorf("unknown sort criterion %q", name)
		}
		spec = append(spec, criterion)
	}
	if len(spec) == 0 {
		spec = core.SortSpec{core.CriterionAuto}
	}
	return spec, nil
}

func formatTask(task *core.Task) string {
	var details []string
	if task.DueDate != nil {
		details = append(details, "due "+task.DueDate.Format("2006-01-02"))
	}
	if task.HasPriority() {
		details = append(details, fmt.Sprintf("p%d", task.Priority))
	}
	if len(task.Tags) > 0 {
		details = append(details, "#"+strings.Join(task.Tags, " #"))
	}
	if task.Folder != "" {
		details = append(details, task.Folder)
	}

	line := fmt.Sprintf("[%s] %s", task.Status, task.Text)
	if len(details) > 0 {
		line = fmt.Sprintf("%s (%s)", line, strings.Join(details, ", "))
	}
	return line
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
