package raw

import "fmt"

// Burst is an ordered sequence of captures of the same scene, paired
// positionally with per-capture metadata. Index 0 is the reference frame
// used for previews. Order is capture order and is preserved through the
// pipeline.
type Burst struct {
	Images []*Image
	Meta   []Metadata
}

// Validate checks the burst pairing invariant.
func (b *Burst) Validate() error {
	if len(b.Images) != len(b.Meta) {
		return fmt.Errorf("burst has %d images but %d metadata entries", len(b.Images), len(b.Meta))
	}
	return nil
}

// Clone deep-copies the images; metadata is copied by value.
func (b *Burst) Clone() *Burst {
	out := &Burst{
		Images: make([]*Image, len(b.Images)),
		Meta:   make([]Metadata, len(b.Meta)),
	}
	for i, img := range b.Images {
		out.Images[i] = img.Clone()
	}
	copy(out.Meta, b.Meta)
	return out
}
