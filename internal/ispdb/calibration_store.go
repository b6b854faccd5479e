package ispdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/burstlab/internal/raw"
)

// ErrNotFound reports a missing calibration record.
var ErrNotFound = errors.New("calibration not found")

// CalibrationStore persists per-device calibration data: lens-shading maps
// and explicit black levels.
type CalibrationStore struct {
	db *sql.DB
}

// PutShadingMap stores (or replaces) the shading map for a device.
func (s *CalibrationStore) PutShadingMap(deviceID, nativeCFA string, m *raw.ShadingMap) error {
	gains, err := json.Marshal(m.Gains)
	if err != nil {
		return fmt.Errorf("encode gains: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO shading_maps (device_id, native_cfa, width, height, gains_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (device_id) DO UPDATE SET
			native_cfa = excluded.native_cfa,
			width = excluded.width,
			height = excluded.height,
			gains_json = excluded.gains_json,
			created_at = excluded.created_at`,
		deviceID, nativeCFA, m.Width, m.Height, string(gains), time.Now().UnixNano())
	return err
}

// GetShadingMap loads a device's shading map and its native CFA order.
func (s *CalibrationStore) GetShadingMap(deviceID string) (*raw.ShadingMap, string, error) {
	var (
		nativeCFA     string
		width, height int
		gainsJSON     string
	)
	err := s.db.QueryRow(`
		SELECT native_cfa, width, height, gains_json
		FROM shading_maps WHERE device_id = ?`, deviceID).
		Scan(&nativeCFA, &width, &height, &gainsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("shading map for device %q: %w", deviceID, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("query shading map: %w", err)
	}

	m := &raw.ShadingMap{Width: width, Height: height}
	if err := json.Unmarshal([]byte(gainsJSON), &m.Gains); err != nil {
		return nil, "", fmt.Errorf("decode gains for device %q: %w", deviceID, err)
	}
	if len(m.Gains) != width*height*4 {
		return nil, "", fmt.Errorf("device %q: %d gains for %dx%dx4 map", deviceID, len(m.Gains), width, height)
	}
	return m, nativeCFA, nil
}

// PutBlackLevels stores (or replaces) explicit per-quadrant black levels
// for a device.
func (s *CalibrationStore) PutBlackLevels(deviceID string, levels []float64) error {
	if len(levels) != 4 {
		return fmt.Errorf("expected 4 black levels, got %d", len(levels))
	}
	enc, err := json.Marshal(levels)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO black_levels (device_id, levels_json, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (device_id) DO UPDATE SET
			levels_json = excluded.levels_json,
			created_at = excluded.created_at`,
		deviceID, string(enc), time.Now().UnixNano())
	return err
}

// GetBlackLevels loads a device's stored black levels.
func (s *CalibrationStore) GetBlackLevels(deviceID string) ([]float64, error) {
	var enc string
	err := s.db.QueryRow(`SELECT levels_json FROM black_levels WHERE device_id = ?`, deviceID).Scan(&enc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("black levels for device %q: %w", deviceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query black levels: %w", err)
	}
	var levels []float64
	if err := json.Unmarshal([]byte(enc), &levels); err != nil {
		return nil, fmt.Errorf("decode black levels for device %q: %w", deviceID, err)
	}
	return levels, nil
}
