// Command calibrate loads per-device calibration data into the database:
// a lens-shading map exported as JSON and/or explicit black levels. Run it
// once per device; the pipeline then picks the calibration up by device ID.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/burstlab/internal/ispdb"
	"github.com/banshee-data/burstlab/internal/raw"
)

var (
	dbPath   = flag.String("db", "isp.db", "Calibration database path")
	deviceID = flag.String("device", "", "Device ID the calibration belongs to (required)")
	mapFile  = flag.String("map", "", "Shading map JSON file to import")
	levels   = flag.String("black", "", "Per-quadrant black levels, e.g. \"64 64 64 64\"")
	show     = flag.Bool("show", false, "Print the device's stored calibration and exit")
)

// shadingMapFile is the import format: gains are channel-minor, cell-major,
// matching the in-memory layout.
type shadingMapFile struct {
	NativeCFA string    `json:"native_cfa"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Gains     []float64 `json:"gains"`
}

func main() {
	flag.Parse()

	if *deviceID == "" {
		log.Fatal("-device is required")
	}

	db, err := ispdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	store := db.Calibrations()

	if *show {
		showCalibration(store)
		return
	}
	if *mapFile == "" && *levels == "" {
		log.Fatal("nothing to do: pass -map and/or -black (or -show)")
	}

	if *mapFile != "" {
		if err := importShadingMap(store, *mapFile); err != nil {
			log.Fatalf("import shading map: %v", err)
		}
	}
	if *levels != "" {
		parsed, err := raw.ParseLevels(*levels)
		if err != nil {
			log.Fatalf("parse black levels: %v", err)
		}
		if err := store.PutBlackLevels(*deviceID, parsed); err != nil {
			log.Fatalf("store black levels: %v", err)
		}
		log.Printf("stored black levels %v for device %q", parsed, *deviceID)
	}
}

func importShadingMap(store *ispdb.CalibrationStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var in shadingMapFile
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if in.Width <= 0 || in.Height <= 0 {
		return fmt.Errorf("map needs positive dimensions, got %dx%d", in.Width, in.Height)
	}
	if len(in.Gains) != in.Width*in.Height*4 {
		return fmt.Errorf("%d gains for a %dx%dx4 map", len(in.Gains), in.Width, in.Height)
	}
	if len(in.NativeCFA) != 4 {
		return fmt.Errorf("native_cfa must name 4 channels, got %q", in.NativeCFA)
	}

	m := raw.NewShadingMap(in.Width, in.Height)
	copy(m.Gains, in.Gains)
	if err := store.PutShadingMap(*deviceID, in.NativeCFA, m); err != nil {
		return err
	}
	log.Printf("stored %dx%d shading map (native %s) for device %q", in.Width, in.Height, in.NativeCFA, *deviceID)
	return nil
}

func showCalibration(store *ispdb.CalibrationStore) {
	m, cfa, err := store.GetShadingMap(*deviceID)
	if err != nil {
		log.Printf("shading map: %v", err)
	} else {
		fmt.Printf("shading map: %dx%d cells, native %s\n", m.Width, m.Height, cfa)
	}
	bl, err := store.GetBlackLevels(*deviceID)
	if err != nil {
		log.Printf("black levels: %v", err)
	} else {
		fmt.Printf("black levels: %v\n", bl)
	}
}
