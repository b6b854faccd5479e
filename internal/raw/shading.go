package raw

// ShadingMap is a per-device lens-shading (vignetting) calibration: a
// spatial grid of multiplicative gains with four channels per cell, stored
// channel-minor. Channels are in the map's native CFA order, which is a
// device convention independent of any single image's own mosaic order.
type ShadingMap struct {
	Width  int // spatial columns
	Height int // spatial rows
	Gains  []float64 // len = Width*Height*4
}

// NewShadingMap allocates a zeroed map of the given spatial dimensions.
func NewShadingMap(width, height int) *ShadingMap {
	return &ShadingMap{
		Width:  width,
		Height: height,
		Gains:  make([]float64, width*height*4),
	}
}

// At returns the gain for cell (x, y), channel c.
func (m *ShadingMap) At(x, y, c int) float64 {
	return m.Gains[(y*m.Width+x)*4+c]
}

// Set stores the gain for cell (x, y), channel c.
func (m *ShadingMap) Set(x, y, c int, v float64) {
	m.Gains[(y*m.Width+x)*4+c] = v
}

// Clone returns a deep copy sharing no storage with the receiver.
func (m *ShadingMap) Clone() *ShadingMap {
	out := &ShadingMap{Width: m.Width, Height: m.Height, Gains: make([]float64, len(m.Gains))}
	copy(out.Gains, m.Gains)
	return out
}

// Equal reports numeric equality of dimensions and every gain value.
func (m *ShadingMap) Equal(other *ShadingMap) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	if m.Width != other.Width || m.Height != other.Height || len(m.Gains) != len(other.Gains) {
		return false
	}
	for i, v := range m.Gains {
		if v != other.Gains[i] {
			return false
		}
	}
	return true
}

// Permute reorders the channel axis: channel k of the result is channel
// perm[k] of the receiver. Spatial cells are unchanged.
func (m *ShadingMap) Permute(perm [4]int) *ShadingMap {
	out := NewShadingMap(m.Width, m.Height)
	for cell := 0; cell < m.Width*m.Height; cell++ {
		for k := 0; k < 4; k++ {
			out.Gains[cell*4+k] = m.Gains[cell*4+perm[k]]
		}
	}
	return out
}

// Channel extracts one channel as a contiguous row-major spatial plane.
func (m *ShadingMap) Channel(c int) []float64 {
	out := make([]float64, m.Width*m.Height)
	for i := range out {
		out[i] = m.Gains[i*4+c]
	}
	return out
}

// ResizeBilinear resamples a row-major plane of srcW x srcH to dstW x dstH
// using bilinear interpolation with half-pixel sample centres. Exact-linear:
// when dimensions are unchanged the input is reproduced bit for bit.
func ResizeBilinear(src []float64, srcW, srcH, dstW, dstH int) []float64 {
	out := make([]float64, dstW*dstH)
	if srcW == 0 || srcH == 0 || dstW == 0 || dstH == 0 {
		return out
	}
	scaleX := float64(srcW) / float64(dstW)
	scaleY := float64(srcH) / float64(dstH)
	for dy := 0; dy < dstH; dy++ {
		sy := (float64(dy)+0.5)*scaleY - 0.5
		y0, fy := splitCoord(sy, srcH)
		y1 := min(y0+1, srcH-1)
		for dx := 0; dx < dstW; dx++ {
			sx := (float64(dx)+0.5)*scaleX - 0.5
			x0, fx := splitCoord(sx, srcW)
			x1 := min(x0+1, srcW-1)

			top := src[y0*srcW+x0]*(1-fx) + src[y0*srcW+x1]*fx
			bot := src[y1*srcW+x0]*(1-fx) + src[y1*srcW+x1]*fx
			out[dy*dstW+dx] = top*(1-fy) + bot*fy
		}
	}
	return out
}

// splitCoord clamps a source coordinate into [0, n-1] and splits it into an
// integer base and fractional weight.
func splitCoord(s float64, n int) (int, float64) {
	if s <= 0 {
		return 0, 0
	}
	if s >= float64(n-1) {
		return n - 1, 0
	}
	i := int(s)
	return i, s - float64(i)
}
