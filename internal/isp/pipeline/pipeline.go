package pipeline

import (
	"fmt"
	"time"

	"github.com/banshee-data/burstlab/internal/isp"
	"github.com/banshee-data/burstlab/internal/raw"
)

// Sink receives preview images at pipeline boundaries and the timing
// report after the last step. Implementations write synchronously; the
// orchestrator performs the writes inline with step bookkeeping.
type Sink interface {
	WriteImage(name string, img *raw.Image) error
	WriteTimings(rep *Report) error
}

// Config is the explicit configuration threaded into pipeline
// construction.
type Config struct {
	// DefaultSteps runs when the caller supplies no step list (or an
	// empty one — empty means "use defaults", not "run nothing").
	DefaultSteps []isp.Step
	// NativeCFA is the shading maps' native channel order, passed to
	// lens shading correction unless an override already names one.
	NativeCFA string
}

// BuiltinSteps is the default processing order when neither the caller nor
// the configuration supplies one.
var BuiltinSteps = []isp.Step{
	isp.BlackLevelSubtraction,
	isp.Normalization,
	isp.LensShadingCorrection,
}

// Pipeline runs an ordered list of registered steps across a burst. The
// list is fixed at construction. A Pipeline is stateless across runs; the
// only shared mutable state is the step registry, which is written during
// package loading and read-only thereafter.
type Pipeline struct {
	steps []isp.Step
	cfg   Config
}

// New constructs a pipeline. An empty step list falls back to
// cfg.DefaultSteps, then to BuiltinSteps. A step named more than once is a
// configuration defect and fails with *isp.DuplicateStepError.
func New(cfg Config, steps ...isp.Step) (*Pipeline, error) {
	if len(steps) == 0 {
		steps = cfg.DefaultSteps
	}
	if len(steps) == 0 {
		steps = BuiltinSteps
	}
	seen := make(map[isp.Step]bool, len(steps))
	for _, s := range steps {
		if seen[s] {
			return nil, &isp.DuplicateStepError{Step: s}
		}
		seen[s] = true
	}
	return &Pipeline{steps: append([]isp.Step(nil), steps...), cfg: cfg}, nil
}

// Steps returns the configured step order.
func (p *Pipeline) Steps() []isp.Step {
	return append([]isp.Step(nil), p.steps...)
}

// Run executes every configured step in order over the burst and returns
// the processed images, same length and order as the input, with the
// timing report.
//
// The input images are defensively copied before the first step, so
// caller-owned arrays are never touched; a step's own inplace flag then
// controls whether that step copies again or mutates the working burst.
// Failure is fail-fast: an unregistered step or a step's own validation
// error aborts the run with no partial results and no further sink writes.
func (p *Pipeline) Run(images []*raw.Image, meta []raw.Metadata, overrides isp.Overrides, sink Sink) ([]*raw.Image, *Report, error) {
	burst := &raw.Burst{Images: images, Meta: meta}
	if err := burst.Validate(); err != nil {
		return nil, nil, err
	}

	if sink != nil && len(images) > 0 {
		if err := sink.WriteImage("step_0_raw_image", images[0]); err != nil {
			return nil, nil, fmt.Errorf("write reference preview: %w", err)
		}
	}

	current := make([]*raw.Image, len(images))
	for i, img := range images {
		current[i] = img.Clone()
	}

	rep := &Report{}
	runStart := time.Now()
	for idx, step := range p.steps {
		fn, err := isp.Resolve(step)
		if err != nil {
			opsf("aborting run: %v", err)
			return nil, nil, err
		}

		params := p.stepParams(step, overrides)
		diagf("executing step %q", step)

		stepStart := time.Now()
		next, err := fn(current, meta, params)
		if err != nil {
			return nil, nil, err
		}
		elapsed := time.Since(stepStart)
		rep.Steps = append(rep.Steps, StepTiming{Step: step, Elapsed: elapsed})
		diagf("step %q done in %s", step, elapsed)

		if len(next) != len(current) {
			return nil, nil, fmt.Errorf("step %q returned %d images for a %d-frame burst", step, len(next), len(current))
		}
		current = next

		if sink != nil && len(current) > 0 {
			name := fmt.Sprintf("step_%d_%s", idx+1, step)
			if err := sink.WriteImage(name, clipNonNegative(current[0])); err != nil {
				return nil, nil, fmt.Errorf("write preview for step %q: %w", step, err)
			}
		}
	}
	rep.Total = time.Since(runStart)

	if sink != nil {
		if err := sink.WriteTimings(rep); err != nil {
			return nil, nil, fmt.Errorf("write timing report: %w", err)
		}
	}
	return current, rep, nil
}

// stepParams resolves the override bag for a step and threads the
// configured native CFA convention into lens shading correction when the
// caller did not set one. The caller's bag is never mutated.
func (p *Pipeline) stepParams(step isp.Step, overrides isp.Overrides) isp.Params {
	params := overrides.Get(step)
	if step != isp.LensShadingCorrection || p.cfg.NativeCFA == "" {
		return params
	}
	if _, ok := params["native_cfa"]; ok {
		return params
	}
	out := make(isp.Params, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	out["native_cfa"] = p.cfg.NativeCFA
	return out
}

// clipNonNegative clamps negative intermediate values to zero on a copy.
// Negative samples are physically meaningful mid-pipeline; the clamp is
// strictly a display concern and never touches the working burst.
func clipNonNegative(img *raw.Image) *raw.Image {
	out := img.Clone()
	for i, v := range out.Pix {
		if v < 0 {
			out.Pix[i] = 0
		}
	}
	return out
}
