package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/poiesic/taskquery"
	"github.com/poiesic/taskquery/ingest"
)

var sampleNotes = []ingest.Note{
	{
		Path: "Work/Sprint 12.md",
		Body: `# Sprint 12

- [ ] fix login redirect bug !p1 #auth @due(tomorrow)
- [ ] review payment retry logic #payments @due(2026-09-01)
- [/] migrate session store to redis !p2 #infra
- [x] update onboarding copy #ux
- [ ] write postmortem for friday outage !p1 @due(today)
`,
	},
	{
		Path: "Work/Backlog.md",
		Body: `# Backlog

- [ ] evaluate feature flag providers #infra
- [ ] clean up deprecated API endpoints !p3
- [ ] draft Q4 roadmap @due(2026-10-15) #planning
- [ ] spike on offline mode #mobile
`,
	},
	{
		Path: "Home/Chores.md",
		Body: `# Chores

- [ ] water the plants @due(today) #garden
- [ ] renew car insurance !p2 @due(2026-09-10)
- [x] schedule dentist appointment
- [ ] buy birthday present for sam @due(2026-08-30)
`,
	},
	{
		Path: "Home/Projects.md",
		Body: `# Projects

- [ ] sand and repaint the garden fence #garden
- [ ] back up family photos to the NAS !p3
- [ ] plan the autumn hiking trip #travel
`,
	},
	{
		Path: "Study/Spanish.md",
		Body: `# Spanish

- [ ] finish unit 7 vocabulary drills @due(2026-08-28)
- [ ] book conversation practice session #speaking
- [x] review preterite conjugations
`,
	},
}

func main() {
	dbPath := flag.String("db", "", "path to the task index directory")
	flag.Parse()

	if *dbPath == "" {
		slog.Error("the -db flag is required")
		os.Exit(1)
	}

	db, err := taskquery.NewDatabase(*dbPath)
	if err != nil {
		slog.Error("failed to open index", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pipeline, err := db.NewIngestPipeline()
	if err != nil {
		slog.Error("failed to create ingest pipeline", "err", err)
		os.Exit(1)
	}
	defer pipeline.Release()

	stored, err := pipeline.IngestSync(context.Background(), sampleNotes...)
	if err != nil {
		slog.Error("seeding failed", "err", err)
		os.Exit(1)
	}

	slog.Info("seeded sample tasks", "notes", len(sampleNotes), "tasks", stored)
}
