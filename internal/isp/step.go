package isp

import "github.com/banshee-data/burstlab/internal/raw"

// Step is a stable identifier naming one pipeline stage. Identifiers are
// globally unique; configuring the same identifier twice in one pipeline is
// a configuration defect.
type Step string

// Built-in calibration steps.
const (
	BlackLevelSubtraction Step = "black_level_subtraction"
	Normalization         Step = "normalization"
	LensShadingCorrection Step = "lens_shading_correction"
)

func (s Step) String() string { return string(s) }

// StepFunc is the contract every step implementation satisfies: it receives
// the entire current burst with positionally paired metadata and returns
// the processed images, same length and order. Batch semantics are the
// implementation's responsibility, which lets steps exploit cross-frame
// identity (a shading map shared by the whole burst is realigned and
// interpolated once).
type StepFunc func(images []*raw.Image, meta []raw.Metadata, params Params) ([]*raw.Image, error)
