package steps

import (
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/burstlab/internal/isp"
	"github.com/banshee-data/burstlab/internal/raw"
)

func TestNormalizeImage(t *testing.T) {
	t.Run("values per quadrant", func(t *testing.T) {
		img := sampleImage()
		out, err := NormalizeImage(img, sampleMeta(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Quadrant q divides by (white - black[q]).
		checks := []struct {
			x, y  int
			black float64
		}{
			{0, 0, 50}, {1, 0, 60}, {0, 1, 70}, {1, 1, 80},
			{2, 2, 50}, {3, 3, 80},
		}
		for _, c := range checks {
			want := img.At(c.x, c.y) / (1000 - c.black)
			if got := out.At(c.x, c.y); math.Abs(got-want) > 1e-12 {
				t.Errorf("At(%d,%d) = %g, want %g", c.x, c.y, got, want)
			}
		}
	})

	t.Run("missing white level fails", func(t *testing.T) {
		_, err := NormalizeImage(sampleImage(), raw.Metadata{BlackLevel: raw.LevelList{50, 60, 70, 80}}, false)
		var calErr *isp.InvalidCalibrationError
		if !errors.As(err, &calErr) {
			t.Fatalf("expected *InvalidCalibrationError, got %T: %v", err, err)
		}
	})

	t.Run("zero white level fails", func(t *testing.T) {
		meta := sampleMeta()
		meta.WhiteLevel = 0
		_, err := NormalizeImage(sampleImage(), meta, false)
		var calErr *isp.InvalidCalibrationError
		if !errors.As(err, &calErr) {
			t.Fatalf("expected *InvalidCalibrationError, got %T: %v", err, err)
		}
	})

	t.Run("white equal to black is degenerate", func(t *testing.T) {
		meta := raw.Metadata{BlackLevel: raw.LevelList{50, 60, 70, 200}, WhiteLevel: 200}
		_, err := NormalizeImage(sampleImage(), meta, false)
		var calErr *isp.InvalidCalibrationError
		if !errors.As(err, &calErr) {
			t.Fatalf("expected *InvalidCalibrationError, got %T: %v", err, err)
		}
	})

	t.Run("copy vs inplace", func(t *testing.T) {
		img := sampleImage()
		out, err := NormalizeImage(img, sampleMeta(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out == img {
			t.Error("inplace=false must copy")
		}
		out, err = NormalizeImage(img, sampleMeta(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != img {
			t.Error("inplace=true must mutate the input")
		}
	})

	t.Run("re-derives black levels when absent", func(t *testing.T) {
		// With no calibration data the levels come from quadrant minima,
		// so the minimum of each quadrant normalizes to exactly zero.
		out, err := NormalizeImage(sampleImage(), raw.Metadata{WhiteLevel: 1000}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.At(0, 0); got != 0 {
			t.Errorf("quadrant minimum should normalize to 0, got %g", got)
		}
	})
}

func TestNormalizationStep(t *testing.T) {
	fn, err := isp.Resolve(isp.Normalization)
	if err != nil {
		t.Fatalf("step not registered: %v", err)
	}
	out, err := fn([]*raw.Image{sampleImage()}, []raw.Metadata{sampleMeta()}, isp.Params{"inplace": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d images, want 1", len(out))
	}
}
