package search

import "github.com/poiesic/taskquery/core"

// SearchMonitor provides hooks to observe the pipeline stages.
// Implement this interface to track intermediate sets during a search.
type SearchMonitor interface {
	Start(query string)
	AfterInterpret(pq *core.ParsedQuery)
	AfterPropertyFilter(tasks []*core.Task, applied []string)
	AfterKeywordFilter(tasks []*core.Task, skipped bool)
	AfterScoring(scored []*core.ScoredTask)
	AfterQualityGate(kept []*core.ScoredTask, threshold float64, floorApplied bool)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of SearchMonitor.
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string) {}

func (n *noopMonitor) AfterInterpret(_ *core.ParsedQuery) {}

func (n *noopMonitor) AfterPropertyFilter(_ []*core.Task, _ []string) {}

func (n *noopMonitor) AfterKeywordFilter(_ []*core.Task, _ bool) {}

func (n *noopMonitor) AfterScoring(_ []*core.ScoredTask) {}

func (n *noopMonitor) AfterQualityGate(_ []*core.ScoredTask, _ float64, _ bool) {}

func (n *noopMonitor) Finish(_ *Result) {}
