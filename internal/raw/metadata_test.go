package raw

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLevelListUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("numeric array", func(t *testing.T) {
		var meta Metadata
		if err := json.Unmarshal([]byte(`{"BlackLevel": [50, 60, 70, 80]}`), &meta); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(LevelList{50, 60, 70, 80}, meta.BlackLevel); diff != "" {
			t.Errorf("levels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("delimited string", func(t *testing.T) {
		var meta Metadata
		if err := json.Unmarshal([]byte(`{"BlackLevel": "50 60 70 80"}`), &meta); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(LevelList{50, 60, 70, 80}, meta.BlackLevel); diff != "" {
			t.Errorf("levels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("garbage string", func(t *testing.T) {
		var meta Metadata
		if err := json.Unmarshal([]byte(`{"BlackLevel": "fifty sixty"}`), &meta); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		var meta Metadata
		if err := json.Unmarshal([]byte(`{"BlackLevel": {"a": 1}}`), &meta); err == nil {
			t.Error("expected type error")
		}
	})
}

func TestLevelListAllZero(t *testing.T) {
	t.Parallel()

	if !(LevelList{0, 0, 0, 0}).AllZero() {
		t.Error("all-zero list not detected")
	}
	if (LevelList{0, 0, 1, 0}).AllZero() {
		t.Error("non-zero list reported all-zero")
	}
	if !(LevelList{}).AllZero() {
		t.Error("empty list should count as all-zero")
	}
}

func TestMetadataSidecarShape(t *testing.T) {
	t.Parallel()

	blob := `{
		"BlackLevel": "64 64 64 64",
		"WhiteLevel": 1023,
		"color_desc": "RGBG",
		"raw_pattern": [[0, 1], [3, 2]],
		"ImageWidth": 4032,
		"ImageHeight": 3024,
		"device_id": "pixel-xl-0"
	}`
	var meta Metadata
	if err := json.Unmarshal([]byte(blob), &meta); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.WhiteLevel != 1023 || meta.ColorDesc != "RGBG" || meta.DeviceID != "pixel-xl-0" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.RawPattern == nil || *meta.RawPattern != (Pattern{{0, 1}, {3, 2}}) {
		t.Errorf("raw pattern = %v", meta.RawPattern)
	}
}

func TestBurstValidate(t *testing.T) {
	t.Parallel()

	b := &Burst{Images: []*Image{NewImage(2, 2)}, Meta: []Metadata{{}, {}}}
	if err := b.Validate(); err == nil {
		t.Error("expected pairing error")
	}
	b.Meta = b.Meta[:1]
	if err := b.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
