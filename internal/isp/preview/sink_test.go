package preview

import (
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/burstlab/internal/isp"
	"github.com/banshee-data/burstlab/internal/isp/pipeline"
	"github.com/banshee-data/burstlab/internal/raw"
)

func TestNewDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "previews")
	if _, err := NewDirSink(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("sink directory not created: %v", err)
	}
}

func TestWriteImage(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img := raw.FromRows([][]float64{{0, 512}, {768, 1023}})

	if err := sink.WriteImage("step_0_raw_image", img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "step_0_raw_image.jpg"))
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	defer f.Close()
	decoded, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("preview is not a valid JPEG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("preview bounds = %v, want 2x2", b)
	}

	t.Run("heatmap disabled by default", func(t *testing.T) {
		if _, err := os.Stat(filepath.Join(dir, "step_0_raw_image.png")); !os.IsNotExist(err) {
			t.Errorf("heatmap written without opt-in: %v", err)
		}
	})
}

func TestWriteImageHeatmap(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sink.Heatmaps = true

	img := raw.FromRows([][]float64{{0.1, 0.5}, {0.9, 1.3}})
	if err := sink.WriteImage("step_3_lens_shading_correction", img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "step_3_lens_shading_correction.png")); err != nil {
		t.Errorf("heatmap not written: %v", err)
	}
}

func TestWriteTimings(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rep := &pipeline.Report{
		Steps: []pipeline.StepTiming{
			{Step: isp.BlackLevelSubtraction, Elapsed: 2 * time.Millisecond},
			{Step: isp.Normalization, Elapsed: time.Millisecond},
		},
		Total: 3 * time.Millisecond,
	}
	if err := sink.WriteTimings(rep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txt, err := os.ReadFile(filepath.Join(dir, "timings.txt"))
	if err != nil {
		t.Fatalf("timings.txt not written: %v", err)
	}
	for _, want := range []string{"black_level_subtraction: 2ms", "normalization: 1ms", "total: 3ms"} {
		if !strings.Contains(string(txt), want) {
			t.Errorf("timings.txt missing %q:\n%s", want, txt)
		}
	}

	html, err := os.ReadFile(filepath.Join(dir, "timings.html"))
	if err != nil {
		t.Fatalf("timings.html not written: %v", err)
	}
	if !strings.Contains(string(html), "black_level_subtraction") {
		t.Error("timing chart missing step names")
	}
}

func TestRenderGray(t *testing.T) {
	t.Run("scales by frame maximum", func(t *testing.T) {
		img := raw.FromRows([][]float64{{0, 50}, {100, 200}})
		gray := renderGray(img)
		if gray.Pix[3] != 255 {
			t.Errorf("maximum sample = %d, want 255", gray.Pix[3])
		}
		if gray.Pix[0] != 0 {
			t.Errorf("zero sample = %d, want 0", gray.Pix[0])
		}
	})

	t.Run("all-zero frame renders black", func(t *testing.T) {
		img := raw.NewImage(2, 2)
		gray := renderGray(img)
		for _, p := range gray.Pix {
			if p != 0 {
				t.Fatalf("pix = %v, want all zero", gray.Pix)
			}
		}
	})
}
