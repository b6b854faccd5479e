package preview

import (
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/burstlab/internal/raw"
)

// imageGrid adapts a raw image to the plotter heat-map grid interface.
// Row 0 of the image is drawn at the top, so Z flips the y axis.
type imageGrid struct {
	img *raw.Image
}

func (g imageGrid) Dims() (c, r int)   { return g.img.Width, g.img.Height }
func (g imageGrid) X(c int) float64    { return float64(c) }
func (g imageGrid) Y(r int) float64    { return float64(r) }
func (g imageGrid) Z(c, r int) float64 { return g.img.At(c, g.img.Height-1-r) }

// writeHeatMap renders a frame as a heat-map PNG next to its JPEG preview.
// Useful for eyeballing vignetting gradients that grayscale JPEGs flatten.
func (s *DirSink) writeHeatMap(name string, img *raw.Image) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	hm := plotter.NewHeatMap(imageGrid{img: img}, palette.Heat(64, 1))
	p.Add(hm)

	return p.Save(6*vg.Inch, 6*vg.Inch, filepath.Join(s.dir, name+".png"))
}
