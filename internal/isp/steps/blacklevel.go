// Package steps holds the built-in calibration step implementations. Each
// implementation registers itself with the isp registry from init, so a
// blank import of this package from the composition root is the discovery
// pass that populates the dispatch table.
package steps

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/burstlab/internal/isp"
	"github.com/banshee-data/burstlab/internal/monitoring"
	"github.com/banshee-data/burstlab/internal/raw"
)

func init() {
	isp.Register(isp.BlackLevelSubtraction, runBlackLevelSubtraction)
}

// RetrieveBlackLevels resolves the four per-quadrant black levels for one
// capture. Explicit calibration data from metadata wins; when the field is
// absent or all-zero the level is estimated per CFA quadrant as the minimum
// sample of that quadrant's plane, treating the noise floor at zero
// exposure as the true offset.
func RetrieveBlackLevels(img *raw.Image, meta raw.Metadata) ([4]float64, error) {
	var out [4]float64

	levels := meta.BlackLevel
	if len(levels) == 0 || levels.AllZero() {
		monitoring.Logf("metadata missing per-channel black levels; estimating from CFA minima")
		for q := 0; q < 4; q++ {
			plane := img.Plane(q)
			if len(plane) == 0 {
				return out, &isp.InvalidCalibrationError{Field: "BlackLevel", Reason: "image too small to estimate black levels"}
			}
			out[q] = floats.Min(plane)
		}
		return out, nil
	}

	if len(levels) != 4 {
		return out, &isp.InvalidCalibrationError{
			Field:  "BlackLevel",
			Reason: fmt.Sprintf("expected 4 per-quadrant values, got %d (%v)", len(levels), []float64(levels)),
		}
	}
	copy(out[:], levels)

	// A black level above the brightest measured sample means either the
	// calibration data or the image is wrong.
	max := img.Max()
	for q, bl := range out {
		if bl > max {
			return out, &isp.InvalidCalibrationError{
				Field:  "BlackLevel",
				Reason: fmt.Sprintf("channel %d level %g exceeds image max %g", q, bl, max),
			}
		}
	}
	return out, nil
}

// SubtractBlackLevels subtracts each quadrant's black level from every
// sample at that quadrant's strided positions. Negative results are valid
// and preserved for downstream steps, which is why unsigned source storage
// is rejected: subtraction there would wrap.
func SubtractBlackLevels(img *raw.Image, meta raw.Metadata, inplace bool) (*raw.Image, error) {
	if img.Kind == raw.KindUnsigned {
		return nil, &isp.InvalidInputError{
			Reason: fmt.Sprintf("black-level subtraction needs signed samples to keep negative results, got %s storage", img.Kind),
		}
	}
	if !inplace {
		img = img.Clone()
	}
	levels, err := RetrieveBlackLevels(img, meta)
	if err != nil {
		return nil, err
	}
	for q, bl := range levels {
		img.AddToPlane(q, -bl)
	}
	return img, nil
}

func runBlackLevelSubtraction(images []*raw.Image, meta []raw.Metadata, params isp.Params) ([]*raw.Image, error) {
	if err := params.Allow(isp.BlackLevelSubtraction, "inplace"); err != nil {
		return nil, err
	}
	inplace, err := params.Bool("inplace", false)
	if err != nil {
		return nil, err
	}
	if len(images) != len(meta) {
		return nil, fmt.Errorf("got %d images but %d metadata entries", len(images), len(meta))
	}
	out := make([]*raw.Image, len(images))
	for i, img := range images {
		out[i], err = SubtractBlackLevels(img, meta[i], inplace)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return out, nil
}
