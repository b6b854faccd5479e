package steps

import (
	"fmt"

	"github.com/banshee-data/burstlab/internal/isp"
	"github.com/banshee-data/burstlab/internal/raw"
)

func init() {
	isp.Register(isp.Normalization, runNormalization)
}

// NormalizeImage maps each quadrant into [0, 1] nominal range by dividing
// by (white level - black level) for that quadrant.
//
// Black levels are re-derived here via the same retrieval rule as
// subtraction: normalization does not assume a subtraction step already
// ran, and its own lookup is authoritative even when composed after one.
func NormalizeImage(img *raw.Image, meta raw.Metadata, inplace bool) (*raw.Image, error) {
	if !inplace {
		img = img.Clone()
	}
	white := meta.WhiteLevel
	if white <= 0 {
		return nil, &isp.InvalidCalibrationError{
			Field:  "WhiteLevel",
			Reason: fmt.Sprintf("expected a positive white level, got %g", white),
		}
	}
	levels, err := RetrieveBlackLevels(img, meta)
	if err != nil {
		return nil, err
	}
	for q, bl := range levels {
		denom := white - bl
		if denom == 0 {
			return nil, &isp.InvalidCalibrationError{
				Field:  "WhiteLevel",
				Reason: fmt.Sprintf("white level equals black level %g for channel %d", bl, q),
			}
		}
		img.ScalePlane(q, 1/denom)
	}
	return img, nil
}

func runNormalization(images []*raw.Image, meta []raw.Metadata, params isp.Params) ([]*raw.Image, error) {
	if err := params.Allow(isp.Normalization, "inplace"); err != nil {
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
		out[i], err = NormalizeImage(img, meta[i], inplace)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return out, nil
}
