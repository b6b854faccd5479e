package dataset

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/burstlab/internal/raw"
)

// DirSource reads bursts from <Root>/<burstID>/: one .raw16 file per frame
// (16-bit little-endian samples, row-major) with a .json metadata sidecar
// of the same basename. Frames are ordered by filename, which matches
// capture order in the datasets this layout was built for.
type DirSource struct {
	Root string

	// KeepUnsigned marks decoded images as unsigned storage instead of
	// converting. Useful for exercising the subtraction guard; normal
	// runs convert to float on load.
	KeepUnsigned bool
}

// LoadBurst implements Source.
func (s *DirSource) LoadBurst(ctx context.Context, burstID string) (*raw.Burst, error) {
	dir := filepath.Join(s.Root, burstID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read burst dir: %w", err)
	}

	var frames []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".raw16") {
			frames = append(frames, e.Name())
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("burst %q has no .raw16 frames", burstID)
	}
	sort.Strings(frames)

	burst := &raw.Burst{}
	for _, name := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := strings.TrimSuffix(name, ".raw16")
		meta, err := readSidecar(filepath.Join(dir, base+".json"))
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", name, err)
		}
		img, err := s.readFrame(filepath.Join(dir, name), meta)
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", name, err)
		}
		burst.Images = append(burst.Images, img)
		burst.Meta = append(burst.Meta, meta)
	}
	return burst, burst.Validate()
}

func readSidecar(path string) (raw.Metadata, error) {
	var meta raw.Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("read metadata sidecar: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parse metadata sidecar: %w", err)
	}
	if meta.ImageWidth <= 0 || meta.ImageHeight <= 0 {
		return meta, fmt.Errorf("sidecar missing positive ImageWidth/ImageHeight")
	}
	return meta, nil
}

func (s *DirSource) readFrame(path string, meta raw.Metadata) (*raw.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	want := meta.ImageWidth * meta.ImageHeight * 2
	if len(data) != want {
		return nil, fmt.Errorf("%d bytes for %dx%d frame, want %d", len(data), meta.ImageWidth, meta.ImageHeight, want)
	}
	img := raw.NewImage(meta.ImageWidth, meta.ImageHeight)
	for i := range img.Pix {
		img.Pix[i] = float64(binary.LittleEndian.Uint16(data[i*2:]))
	}
	if s.KeepUnsigned {
		img.Kind = raw.KindUnsigned
	}
	return img, nil
}
