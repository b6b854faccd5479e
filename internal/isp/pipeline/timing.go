package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/banshee-data/burstlab/internal/isp"
)

// StepTiming is the elapsed wall time of one executed step.
type StepTiming struct {
	Step    isp.Step
	Elapsed time.Duration
}

// Report is the per-run timing telemetry: one entry per executed step in
// execution order, plus the total. Valid for the lifetime of the run that
// produced it.
type Report struct {
	Steps []StepTiming
	Total time.Duration
}

// String renders the plain-text timing report written by preview sinks.
func (r *Report) String() string {
	var b strings.Builder
	for _, st := range r.Steps {
		fmt.Fprintf(&b, "%s: %s\n", st.Step, st.Elapsed)
	}
	fmt.Fprintf(&b, "total: %s\n", r.Total)
	return b.String()
}
