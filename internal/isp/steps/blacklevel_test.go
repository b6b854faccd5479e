package steps

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/burstlab/internal/isp"
	"github.com/banshee-data/burstlab/internal/raw"
)

// sampleImage is a 4x4 Bayer grid whose quadrant minima are
// [100, 110, 140, 150].
func sampleImage() *raw.Image {
	return raw.FromRows([][]float64{
		{100, 110, 120, 130},
		{140, 150, 160, 170},
		{180, 190, 200, 210},
		{220, 230, 240, 250},
	})
}

func sampleMeta() raw.Metadata {
	return raw.Metadata{
		BlackLevel: raw.LevelList{50, 60, 70, 80},
		WhiteLevel: 1000,
	}
}

func TestRetrieveBlackLevels(t *testing.T) {
	t.Run("from metadata list", func(t *testing.T) {
		levels, err := RetrieveBlackLevels(sampleImage(), sampleMeta())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if levels != [4]float64{50, 60, 70, 80} {
			t.Errorf("levels = %v", levels)
		}
	})

	t.Run("from delimited string", func(t *testing.T) {
		parsed, err := raw.ParseLevels("50 60 70 80")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		levels, err := RetrieveBlackLevels(sampleImage(), raw.Metadata{BlackLevel: parsed})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if levels != [4]float64{50, 60, 70, 80} {
			t.Errorf("levels = %v", levels)
		}
	})

	t.Run("estimated from quadrant minima when absent", func(t *testing.T) {
		levels, err := RetrieveBlackLevels(sampleImage(), raw.Metadata{WhiteLevel: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if levels != [4]float64{100, 110, 140, 150} {
			t.Errorf("levels = %v, want quadrant minima", levels)
		}
	})

	t.Run("all-zero calibration falls back to estimation", func(t *testing.T) {
		meta := raw.Metadata{BlackLevel: raw.LevelList{0, 0, 0, 0}}
		levels, err := RetrieveBlackLevels(sampleImage(), meta)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if levels != [4]float64{100, 110, 140, 150} {
			t.Errorf("levels = %v, want quadrant minima", levels)
		}
	})

	t.Run("wrong count fails", func(t *testing.T) {
		meta := raw.Metadata{BlackLevel: raw.LevelList{50, 60, 70}}
		_, err := RetrieveBlackLevels(sampleImage(), meta)
		var calErr *isp.InvalidCalibrationError
		if !errors.As(err, &calErr) {
			t.Fatalf("expected *InvalidCalibrationError, got %T: %v", err, err)
		}
	})

	t.Run("level above image max fails", func(t *testing.T) {
		meta := raw.Metadata{BlackLevel: raw.LevelList{50, 60, 70, 1001}}
		_, err := RetrieveBlackLevels(sampleImage(), meta)
		var calErr *isp.InvalidCalibrationError
		if !errors.As(err, &calErr) {
			t.Fatalf("expected *InvalidCalibrationError, got %T: %v", err, err)
		}
	})
}

func TestSubtractBlackLevels(t *testing.T) {
	t.Run("copy semantics", func(t *testing.T) {
		img := sampleImage()
		orig := img.Clone()
		out, err := SubtractBlackLevels(img, sampleMeta(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out == img || &out.Pix[0] == &img.Pix[0] {
			t.Fatal("inplace=false must not share storage with the input")
		}
		if diff := cmp.Diff(orig.Pix, img.Pix); diff != "" {
			t.Errorf("input mutated (-want +got):\n%s", diff)
		}
		// Quadrant 0 loses 50, quadrant 3 loses 80.
		if out.At(0, 0) != 50 {
			t.Errorf("At(0,0) = %g, want 50", out.At(0, 0))
		}
		if out.At(1, 1) != 70 {
			t.Errorf("At(1,1) = %g, want 70", out.At(1, 1))
		}
	})

	t.Run("inplace shares storage", func(t *testing.T) {
		img := sampleImage()
		out, err := SubtractBlackLevels(img, sampleMeta(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != img {
			t.Fatal("inplace=true must return the same image")
		}
	})

	t.Run("subtract then re-add reconstructs", func(t *testing.T) {
		img := sampleImage()
		out, err := SubtractBlackLevels(img, sampleMeta(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for q, bl := range [4]float64{50, 60, 70, 80} {
			out.AddToPlane(q, bl)
		}
		for i := range img.Pix {
			if math.Abs(out.Pix[i]-img.Pix[i]) > 1e-9 {
				t.Fatalf("pix[%d] = %g, want %g", i, out.Pix[i], img.Pix[i])
			}
		}
	})

	t.Run("unsigned storage rejected", func(t *testing.T) {
		img := sampleImage()
		img.Kind = raw.KindUnsigned
		_, err := SubtractBlackLevels(img, sampleMeta(), false)
		var inputErr *isp.InvalidInputError
		if !errors.As(err, &inputErr) {
			t.Fatalf("expected *InvalidInputError, got %T: %v", err, err)
		}
	})
}

func TestBlackLevelSubtractionStep(t *testing.T) {
	fn, err := isp.Resolve(isp.BlackLevelSubtraction)
	if err != nil {
		t.Fatalf("step not registered: %v", err)
	}

	t.Run("whole burst", func(t *testing.T) {
		images := []*raw.Image{sampleImage(), sampleImage()}
		meta := []raw.Metadata{sampleMeta(), sampleMeta()}
		out, err := fn(images, meta, isp.Params{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("got %d images, want 2", len(out))
		}
		if out[1].At(0, 0) != 50 {
			t.Errorf("frame 1 At(0,0) = %g, want 50", out[1].At(0, 0))
		}
	})

	t.Run("unknown parameter rejected", func(t *testing.T) {
		_, err := fn([]*raw.Image{sampleImage()}, []raw.Metadata{sampleMeta()}, isp.Params{"bogus": 1})
		if err == nil {
			t.Error("expected error for unrecognised parameter")
		}
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		_, err := fn([]*raw.Image{sampleImage()}, nil, isp.Params{})
		if err == nil {
			t.Error("expected error for image/metadata mismatch")
		}
	})
}
