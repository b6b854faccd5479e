// Package dataset supplies bursts to the pipeline. Remote acquisition
// (HDR+ style cloud buckets) and EXIF extraction are external
// collaborators: only their interfaces live here, plus a filesystem source
// good enough for offline experiments.
package dataset

import (
	"context"

	"github.com/banshee-data/burstlab/internal/raw"
)

// Source loads a burst and its per-frame metadata by identifier.
type Source interface {
	LoadBurst(ctx context.Context, burstID string) (*raw.Burst, error)
}

// Downloader fetches a remote burst into a local directory so a filesystem
// Source can read it. Implementations live outside this repository.
type Downloader interface {
	Fetch(ctx context.Context, burstID, destDir string) error
}

// MetadataReader extracts calibration metadata from a capture file.
// Implementations wrap EXIF/DNG tooling and live outside this repository.
type MetadataReader interface {
	ReadMetadata(ctx context.Context, path string) (raw.Metadata, error)
}
