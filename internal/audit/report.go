package audit

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/wtstats/wtstats/pkg/metrics"
)

// Finding is one fixture that did not load cleanly.
type Finding struct {
	Resource string `json:"resource"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error"`
}

// Report summarizes an audit run.
type Report struct {
	RunID     string         `json:"run_id"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Managers  int            `json:"managers"`
	Pairs     int            `json:"pairs"`
	Counts    map[string]int `json:"counts"`
	Findings  []Finding      `json:"findings"`

	mu sync.Mutex
}

func newReport(runID string) *Report {
	return &Report{
		RunID:     runID,
		StartTime: time.Now(),
		Counts:    make(map[string]int),
	}
}

func (r *Report) add(resource, outcome string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Counts[outcome]++
	if err != nil && outcome != metrics.OutcomeNoHistory {
		r.Findings = append(r.Findings, Finding{Resource: resource, Outcome: outcome, Error: err.Error()})
	}
}

// HardErrors counts outcomes other than ok and no history.
func (r *Report) HardErrors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for outcome, c := range r.Counts {
		if outcome != metrics.OutcomeOK && outcome != metrics.OutcomeNoHistory {
			n += c
		}
	}
	return n
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Write prints a human readable summary. Findings are sorted by resource.
func (r *Report) Write(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Fixture audit %s\n", r.RunID)
	fmt.Fprintf(&b, "  managers: %d\n", r.Managers)
	fmt.Fprintf(&b, "  pairs:    %d\n", r.Pairs)
	fmt.Fprintf(&b, "  duration: %s\n", r.Duration().Round(time.Millisecond))
	b.WriteString("Outcomes:\n")
	for _, outcome := range []string{
		metrics.OutcomeOK,
		metrics.OutcomeNoHistory,
		metrics.OutcomeIntegrity,
		metrics.OutcomeMalformed,
		metrics.OutcomeFetch,
		metrics.OutcomeNetwork,
	} {
		fmt.Fprintf(&b, "  %-15s %d\n", outcome, r.Counts[outcome])
	}

	findings := slices.Clone(r.Findings)
	slices.SortFunc(findings, func(a, b Finding) int { return strings.Compare(a.Resource, b.Resource) })
	if len(findings) > 0 {
		b.WriteString("Findings:\n")
		for _, f := range findings {
			fmt.Fprintf(&b, "  %s [%s] %s\n", f.Resource, f.Outcome, f.Error)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
