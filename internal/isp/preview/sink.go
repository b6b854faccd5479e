// Package preview writes pipeline-boundary previews and per-run timing
// telemetry to a target directory. It is a side channel: nothing here
// feeds back into the numeric pipeline, and display clamping or scaling
// never touches the working burst.
package preview

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/burstlab/internal/isp/pipeline"
	"github.com/banshee-data/burstlab/internal/raw"
)

// DirSink persists previews as JPEG files plus a plain-text timing report
// and an HTML timing chart, all under one directory.
type DirSink struct {
	dir string
	// Heatmaps additionally renders each preview as a gain/intensity
	// heat-map PNG. Off by default; JPEG previews are usually enough.
	Heatmaps bool
}

// NewDirSink creates the target directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// WriteImage renders one raw frame to <dir>/<name>.jpg. Samples are scaled
// by the frame maximum into 8-bit grayscale for display.
func (s *DirSink) WriteImage(name string, img *raw.Image) error {
	f, err := os.Create(filepath.Join(s.dir, name+".jpg"))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := jpeg.Encode(f, renderGray(img), &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if s.Heatmaps {
		if err := s.writeHeatMap(name, img); err != nil {
			return err
		}
	}
	return nil
}

// WriteTimings writes the execution-order timing report as timings.txt and
// an echarts bar chart as timings.html.
func (s *DirSink) WriteTimings(rep *pipeline.Report) error {
	if err := os.WriteFile(filepath.Join(s.dir, "timings.txt"), []byte(rep.String()), 0o644); err != nil {
		return err
	}
	return s.writeTimingChart(rep)
}

func (s *DirSink) writeTimingChart(rep *pipeline.Report) error {
	x := make([]string, 0, len(rep.Steps))
	y := make([]opts.BarData, 0, len(rep.Steps))
	for _, st := range rep.Steps {
		x = append(x, st.Step.String())
		y = append(y, opts.BarData{Value: float64(st.Elapsed.Microseconds()) / 1000.0})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "ISP step timings",
			Subtitle: fmt.Sprintf("total %s", rep.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("elapsed (ms)", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)

	f, err := os.Create(filepath.Join(s.dir, "timings.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

// renderGray maps float samples to 8-bit grayscale, scaling by the frame
// maximum. Display-only; callers pass a pre-clipped copy for mid-pipeline
// frames that may hold negative values.
func renderGray(img *raw.Image) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	max := img.Max()
	if max <= 0 {
		return out
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v := img.At(x, y) / max * 255
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			out.Pix[y*out.Stride+x] = uint8(v + 0.5)
		}
	}
	return out
}
