package isp

import "fmt"

// The pipeline's error taxonomy. All failures are fail-fast: the run aborts
// with no partial results, and the orchestrator adds step-identifying
// context without translating the underlying error. Callers discriminate
// with errors.As.

// InvalidCalibrationError reports malformed or out-of-range calibration
// data: wrong black-level count, black level above the image maximum,
// missing or degenerate white level.
type InvalidCalibrationError struct {
	Field  string
	Reason string
}

func (e *InvalidCalibrationError) Error() string {
	return fmt.Sprintf("invalid calibration %s: %s", e.Field, e.Reason)
}

// InvalidInputError reports an image in a numeric representation a step
// cannot operate on, such as unsigned storage fed to a subtraction.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// MissingMetadataError reports a required per-frame metadata field that is
// absent or empty for the frame a step is processing.
type MissingMetadataError struct {
	Field string
	Frame int
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("frame %d: required metadata field %q absent or empty", e.Frame, e.Field)
}

// UnregisteredStepError reports a configured pipeline step with no
// implementation in the registry.
type UnregisteredStepError struct {
	Step Step
}

func (e *UnregisteredStepError) Error() string {
	return fmt.Sprintf("step %q has no registered implementation", e.Step)
}

// DuplicateStepError reports a configured step list naming the same
// identifier more than once. Caught at pipeline construction.
type DuplicateStepError struct {
	Step Step
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("step %q configured more than once", e.Step)
}
