// Package raw holds the data model for raw Bayer-mosaic sensor captures:
// images, per-capture calibration metadata, bursts, lens-shading maps, and
// the CFA quadrant arithmetic the calibration steps are built on.
//
// Images are row-major float64 grids. The four interleaved colour planes of
// the 2x2-periodic mosaic are addressed by plane index rowParity*2 +
// colParity; Plane/SetPlane and the per-plane arithmetic helpers do the
// stride bookkeeping so steps can treat each quadrant as a dense grid.
package raw
