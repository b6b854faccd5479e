package raw

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LevelList is a list of per-channel calibration levels. It unmarshals from
// either a JSON numeric array or a whitespace-delimited string, matching the
// two shapes EXIF extractors emit for BlackLevel.
type LevelList []float64

// UnmarshalJSON accepts [50,60,70,80] or "50 60 70 80".
func (l *LevelList) UnmarshalJSON(data []byte) error {
	var nums []float64
	if err := json.Unmarshal(data, &nums); err == nil {
		*l = nums
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("level list must be a numeric array or delimited string: %s", data)
	}
	parsed, err := ParseLevels(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevels parses a whitespace-delimited numeric string such as
// "50 60 70 80".
func ParseLevels(s string) (LevelList, error) {
	fields := strings.Fields(s)
	out := make(LevelList, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parse level %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// AllZero reports whether every level is numerically zero. Some devices
// write an all-zero BlackLevel tag instead of omitting it; both mean
// "no calibration data".
func (l LevelList) AllZero() bool {
	for _, v := range l {
		if v != 0 {
			return false
		}
	}
	return true
}

// Pattern is a 2x2 grid of colour-channel indices into a colour description
// string, one per CFA quadrant, row-major.
type Pattern [2][2]int

// Metadata carries the per-capture calibration facts consumed by pipeline
// steps. Field presence requirements vary by step; a step fails hard when a
// field it needs is absent or invalid. JSON tags follow the upstream EXIF
// field names.
type Metadata struct {
	BlackLevel  LevelList `json:"BlackLevel,omitempty"`
	WhiteLevel  float64   `json:"WhiteLevel,omitempty"`
	ColorDesc   string    `json:"color_desc,omitempty"`
	RawPattern  *Pattern  `json:"raw_pattern,omitempty"`
	ImageWidth  int       `json:"ImageWidth,omitempty"`
	ImageHeight int       `json:"ImageHeight,omitempty"`

	// DeviceID identifies the capturing device for calibration lookups
	// (lens-shading maps are calibrated per device).
	DeviceID string `json:"device_id,omitempty"`
}
