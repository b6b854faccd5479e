package steps

import (
	"fmt"

	"github.com/banshee-data/burstlab/internal/isp"
	"github.com/banshee-data/burstlab/internal/raw"
)

// DefaultNativeCFA is the shading maps' native channel order when the
// caller does not thread a configured convention through the step
// parameters. Calibrated per device, fixed system-wide.
const DefaultNativeCFA = "RGGB"

func init() {
	isp.Register(isp.LensShadingCorrection, runLensShadingCorrection)
}

// interpolatedMap is a shading map realigned to one image's CFA order and
// resampled to the image's plane resolution: one dense gain plane per
// quadrant.
type interpolatedMap struct {
	width  int // plane width, image width / 2
	height int
	planes [4][]float64
}

// AlignShadingMap reorders a map's channel axis from its native order into
// the image's own quadrant order, derived from the image's colour
// description and raw CFA pattern.
func AlignShadingMap(m *raw.ShadingMap, meta raw.Metadata, nativeCFA string, frame int) (*raw.ShadingMap, error) {
	if meta.ColorDesc == "" {
		return nil, &isp.MissingMetadataError{Field: "color_desc", Frame: frame}
	}
	if meta.RawPattern == nil {
		return nil, &isp.MissingMetadataError{Field: "raw_pattern", Frame: frame}
	}
	labels, err := raw.QuadrantLabels(meta.ColorDesc, *meta.RawPattern)
	if err != nil {
		return nil, &isp.InvalidCalibrationError{Field: "raw_pattern", Reason: err.Error()}
	}
	perm, err := raw.AlignPermutation(labels, nativeCFA)
	if err != nil {
		return nil, &isp.InvalidCalibrationError{Field: "color_desc", Reason: err.Error()}
	}
	return m.Permute(perm), nil
}

// InterpolateShadingMap resamples each channel of an aligned map up to half
// the image's width and height (each plane covers one quadrant's worth of
// samples) using exact bilinear interpolation.
func InterpolateShadingMap(m *raw.ShadingMap, meta raw.Metadata, frame int) (*interpolatedMap, error) {
	if meta.ImageWidth <= 0 {
		return nil, &isp.MissingMetadataError{Field: "ImageWidth", Frame: frame}
	}
	if meta.ImageHeight <= 0 {
		return nil, &isp.MissingMetadataError{Field: "ImageHeight", Frame: frame}
	}
	out := &interpolatedMap{width: meta.ImageWidth / 2, height: meta.ImageHeight / 2}
	for c := 0; c < 4; c++ {
		out.planes[c] = raw.ResizeBilinear(m.Channel(c), m.Width, m.Height, out.width, out.height)
	}
	return out, nil
}

// ApplyShadingMap multiplies each quadrant's samples by the corresponding
// gain plane. Never clamps: gains above 1 and negative inputs carried over
// from black-level subtraction both pass through untouched.
func ApplyShadingMap(img *raw.Image, m *interpolatedMap, inplace bool) (*raw.Image, error) {
	if !inplace {
		img = img.Clone()
	}
	for q := 0; q < 4; q++ {
		pw, ph := img.PlaneDims(q)
		if pw != m.width || ph != m.height {
			return nil, fmt.Errorf("gain plane %dx%d does not cover image quadrant %d (%dx%d)",
				m.width, m.height, q, pw, ph)
		}
		img.MulPlane(q, m.planes[q])
	}
	return img, nil
}

// runLensShadingCorrection corrects optical fall-off across the burst.
//
// When every supplied per-frame map is numerically identical to the first,
// realignment and interpolation collapse to a single pass and the result is
// broadcast to all frames. That is purely a cost optimisation; per-frame
// maps take the per-frame path.
func runLensShadingCorrection(images []*raw.Image, meta []raw.Metadata, params isp.Params) ([]*raw.Image, error) {
	if err := params.Allow(isp.LensShadingCorrection, "maps", "inplace", "native_cfa"); err != nil {
		return nil, err
	}
	inplace, err := params.Bool("inplace", false)
	if err != nil {
		return nil, err
	}
	maps, err := params.ShadingMaps("maps")
	if err != nil {
		return nil, err
	}
	nativeCFA, err := params.String("native_cfa", DefaultNativeCFA)
	if err != nil {
		return nil, err
	}

	if len(images) != len(meta) {
		return nil, fmt.Errorf("got %d images but %d metadata entries", len(images), len(meta))
	}
	if len(maps) == 0 {
		return nil, fmt.Errorf("required parameter %q missing: lens shading correction needs per-device gain maps", "maps")
	}
	if len(maps) != 1 && len(maps) != len(images) {
		return nil, fmt.Errorf("got %d shading maps for %d frames; want 1 or one per frame", len(maps), len(images))
	}

	// Shading maps are calibrated once per device, so a burst usually
	// carries N copies of the same map. Collapse before the expensive
	// realign/interpolate work.
	if len(maps) > 1 {
		identical := true
		for _, m := range maps[1:] {
			if !m.Equal(maps[0]) {
				identical = false
				break
			}
		}
		if identical {
			maps = maps[:1]
		}
	}

	interpolated := make([]*interpolatedMap, len(maps))
	for i, m := range maps {
		aligned, err := AlignShadingMap(m, meta[i], nativeCFA, i)
		if err != nil {
			return nil, err
		}
		interpolated[i], err = InterpolateShadingMap(aligned, meta[i], i)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*raw.Image, len(images))
	for i, img := range images {
		im := interpolated[0]
		if len(interpolated) > 1 {
			im = interpolated[i]
		}
		out[i], err = ApplyShadingMap(img, im, inplace)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return out, nil
}
