package raw

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// SampleKind records the numeric representation an image was decoded from.
// Sensor dumps are typically unsigned 10/12/16-bit counts; calibration
// arithmetic needs a signed representation because black-level subtraction
// legitimately produces negative values.
type SampleKind int

const (
	// KindFloat marks images backed by signed floating-point samples.
	KindFloat SampleKind = iota
	// KindUnsigned marks images decoded from unsigned integer storage that
	// have not been converted. Subtraction steps reject these.
	KindUnsigned
)

func (k SampleKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindUnsigned:
		return "unsigned"
	default:
		return fmt.Sprintf("SampleKind(%d)", int(k))
	}
}

// Image is a single raw sensor capture: a row-major grid of intensity
// samples in a Bayer mosaic with 2x2 periodicity. The four interleaved
// colour planes are addressed by (rowParity, colParity), linearised as
// plane index rowParity*2 + colParity.
type Image struct {
	Width  int
	Height int
	Kind   SampleKind
	Pix    []float64
}

// NewImage allocates a zeroed float image of the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Kind:   KindFloat,
		Pix:    make([]float64, width*height),
	}
}

// FromRows builds an image from row slices. Rows must be non-empty and of
// equal length. Intended for tests and small fixtures.
func FromRows(rows [][]float64) *Image {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return NewImage(0, 0)
	}
	img := NewImage(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(img.Pix[y*img.Width:(y+1)*img.Width], row)
	}
	return img
}

// At returns the sample at pixel (x, y).
func (img *Image) At(x, y int) float64 {
	return img.Pix[y*img.Width+x]
}

// Set stores a sample at pixel (x, y).
func (img *Image) Set(x, y int, v float64) {
	img.Pix[y*img.Width+x] = v
}

// Clone returns a deep copy sharing no storage with the receiver.
func (img *Image) Clone() *Image {
	out := &Image{
		Width:  img.Width,
		Height: img.Height,
		Kind:   img.Kind,
		Pix:    make([]float64, len(img.Pix)),
	}
	copy(out.Pix, img.Pix)
	return out
}

// Max returns the maximum sample value. Returns 0 for an empty image.
func (img *Image) Max() float64 {
	if len(img.Pix) == 0 {
		return 0
	}
	return floats.Max(img.Pix)
}

// PlaneDims reports the dimensions of one CFA quadrant plane. Odd image
// dimensions round up for the even-parity planes, matching strided
// subsampling.
func (img *Image) PlaneDims(plane int) (w, h int) {
	rowOff, colOff := plane/2, plane%2
	w = (img.Width - colOff + 1) / 2
	h = (img.Height - rowOff + 1) / 2
	return w, h
}

// Plane extracts a copy of one CFA quadrant plane (plane index 0..3,
// rowParity*2 + colParity) as a contiguous row-major grid.
func (img *Image) Plane(plane int) []float64 {
	rowOff, colOff := plane/2, plane%2
	pw, ph := img.PlaneDims(plane)
	out := make([]float64, 0, pw*ph)
	for y := rowOff; y < img.Height; y += 2 {
		row := img.Pix[y*img.Width : (y+1)*img.Width]
		for x := colOff; x < img.Width; x += 2 {
			out = append(out, row[x])
		}
	}
	return out
}

// SetPlane writes a contiguous plane grid back into the quadrant's strided
// positions. The slice length must match PlaneDims.
func (img *Image) SetPlane(plane int, vals []float64) {
	rowOff, colOff := plane/2, plane%2
	i := 0
	for y := rowOff; y < img.Height; y += 2 {
		row := img.Pix[y*img.Width : (y+1)*img.Width]
		for x := colOff; x < img.Width; x += 2 {
			row[x] = vals[i]
			i++
		}
	}
}

// AddToPlane adds a constant to every sample in one quadrant plane,
// in place.
func (img *Image) AddToPlane(plane int, c float64) {
	rowOff, colOff := plane/2, plane%2
	for y := rowOff; y < img.Height; y += 2 {
		row := img.Pix[y*img.Width : (y+1)*img.Width]
		for x := colOff; x < img.Width; x += 2 {
			row[x] += c
		}
	}
}

// ScalePlane multiplies every sample in one quadrant plane by a constant,
// in place.
func (img *Image) ScalePlane(plane int, c float64) {
	rowOff, colOff := plane/2, plane%2
	for y := rowOff; y < img.Height; y += 2 {
		row := img.Pix[y*img.Width : (y+1)*img.Width]
		for x := colOff; x < img.Width; x += 2 {
			row[x] *= c
		}
	}
}

// MulPlane multiplies one quadrant plane element-wise by a gain grid of the
// same plane dimensions, in place. Values are never clamped: gains may push
// samples above 1.0 and negative inputs stay negative.
func (img *Image) MulPlane(plane int, gains []float64) {
	rowOff, colOff := plane/2, plane%2
	i := 0
	for y := rowOff; y < img.Height; y += 2 {
		row := img.Pix[y*img.Width : (y+1)*img.Width]
		for x := colOff; x < img.Width; x += 2 {
			row[x] *= gains[i]
			i++
		}
	}
}
