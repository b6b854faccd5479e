// Package pipeline provides the orchestrator that runs an ordered list of
// registered ISP steps across a raw burst.
//
// This package is the composition root: it resolves step identifiers
// through the isp registry and drives implementations from internal/isp/steps,
// but the step packages never import pipeline. Discovery is a blank import
// of the steps package by whoever constructs a pipeline.
package pipeline
