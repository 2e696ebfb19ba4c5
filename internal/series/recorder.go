package series

import (
	"log/slog"
	"sync"

	"futurescli/pkg/contracts/domain"
)

// Recorder collects the structured diagnostics emitted by the pipeline
// stages. Rejected rolls, forced rolls, universe gaps, and undefined
// adjustments are routine outcomes rather than errors; they accumulate
// here and travel with the build result so a series can be audited
// after the fact.
//
// A Recorder is safe for concurrent use, so independent family builds
// may share one.
type Recorder struct {
	mu     sync.Mutex
	logger *slog.Logger
	items  []domain.Diagnostic
}

// NewRecorder creates an empty diagnostics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewLoggedRecorder creates a recorder that also mirrors every
// diagnostic to the given logger at debug level.
func NewLoggedRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Record appends one diagnostic.
func (r *Recorder) Record(d domain.Diagnostic) {
	r.mu.Lock()
	r.items = append(r.items, d)
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Debug("series diagnostic",
			"kind", string(d.Kind),
			"family", d.Family,
			"slot", d.Slot,
			"day", d.Day.Format("2006-01-02"),
			"contract", d.ContractID,
			"detail", d.Detail,
		)
	}
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Recorder) Diagnostics() []domain.Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// Count returns how many diagnostics of the given kind were recorded.
func (r *Recorder) Count(kind domain.DiagnosticKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
