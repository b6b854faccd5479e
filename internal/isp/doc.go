// Package isp defines the step contract for the raw-burst calibration
// pipeline: step identifiers, the registry mapping them to implementations,
// per-step parameter bags, and the typed errors steps report. Step
// implementations live in the steps subpackage; orchestration lives in
// pipeline.
package isp
