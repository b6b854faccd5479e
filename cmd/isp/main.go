// Command isp runs the calibration pipeline over a raw burst stored on
// disk, writing previews and timing telemetry, and optionally pulling
// per-device shading maps from (and recording the run in) the calibration
// database.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/banshee-data/burstlab/internal/config"
	"github.com/banshee-data/burstlab/internal/dataset"
	"github.com/banshee-data/burstlab/internal/isp"
	"github.com/banshee-data/burstlab/internal/isp/pipeline"
	"github.com/banshee-data/burstlab/internal/isp/preview"
	"github.com/banshee-data/burstlab/internal/ispdb"
	"github.com/banshee-data/burstlab/internal/raw"
	"github.com/banshee-data/burstlab/internal/version"

	// Load the built-in step implementations into the registry.
	_ "github.com/banshee-data/burstlab/internal/isp/steps"
)

var (
	configPath = flag.String("config", "", "JSON config file (optional)")
	dataRoot   = flag.String("data", "data", "Root directory holding burst directories")
	burstID    = flag.String("burst", "", "Burst directory name under the data root (required)")
	stepList   = flag.String("steps", "", "Comma-separated step identifiers (default: configured steps)")
	outDir     = flag.String("out", "", "Preview/telemetry output directory (overrides config)")
	dbPath     = flag.String("db", "", "Calibration database path (overrides config)")
	deviceID   = flag.String("device", "", "Device ID for shading-map lookup in the calibration DB")
	inplace    = flag.Bool("inplace", false, "Let steps mutate the working burst instead of copying per step")
	heatmaps   = flag.Bool("heatmaps", false, "Also render heat-map PNGs next to JPEG previews")
	verbose    = flag.Bool("verbose", false, "Enable per-step diagnostic logging")
	showVer    = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("isp %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	var diag io.Writer
	if *verbose {
		diag = os.Stderr
	}
	pipeline.SetLogWriters(os.Stderr, diag)

	if *burstID == "" {
		log.Fatal("-burst is required")
	}

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	var steps []isp.Step
	if *stepList != "" {
		for _, s := range strings.Split(*stepList, ",") {
			steps = append(steps, isp.Step(strings.TrimSpace(s)))
		}
	}

	pipe, err := pipeline.New(pipeline.Config{
		DefaultSteps: cfg.GetDefaultSteps(),
		NativeCFA:    cfg.GetLSCCFA(),
	}, steps...)
	if err != nil {
		log.Fatalf("construct pipeline: %v", err)
	}

	src := &dataset.DirSource{Root: *dataRoot}
	burst, err := src.LoadBurst(context.Background(), *burstID)
	if err != nil {
		log.Fatalf("load burst %q: %v", *burstID, err)
	}
	log.Printf("loaded burst %q: %d frames", *burstID, len(burst.Images))

	overrides := isp.Overrides{}
	if *inplace || cfg.GetInplace() {
		for _, step := range pipe.Steps() {
			overrides[step] = isp.Params{"inplace": true}
		}
	}

	var db *ispdb.DB
	path := *dbPath
	if path == "" {
		path = cfg.GetDBPath()
	}
	if path != "" {
		db, err = ispdb.Open(path)
		if err != nil {
			log.Fatalf("open calibration db: %v", err)
		}
		defer db.Close()
	}

	if db != nil && *deviceID != "" {
		m, nativeCFA, err := db.Calibrations().GetShadingMap(*deviceID)
		if err != nil {
			log.Fatalf("load shading map: %v", err)
		}
		lsc := overrides[isp.LensShadingCorrection]
		if lsc == nil {
			lsc = isp.Params{}
		}
		lsc["maps"] = []*raw.ShadingMap{m}
		lsc["native_cfa"] = nativeCFA
		overrides[isp.LensShadingCorrection] = lsc
		log.Printf("using %dx%d shading map for device %q (native %s)", m.Width, m.Height, *deviceID, nativeCFA)
	}

	var sink pipeline.Sink
	dir := *outDir
	if dir == "" {
		dir = cfg.GetPreviewDir()
	}
	if dir != "" {
		ds, err := preview.NewDirSink(dir)
		if err != nil {
			log.Fatalf("create preview sink: %v", err)
		}
		ds.Heatmaps = *heatmaps
		sink = ds
	}

	processed, rep, err := pipe.Run(burst.Images, burst.Meta, overrides, sink)
	if err != nil {
		log.Fatalf("pipeline run failed: %v", err)
	}

	for _, st := range rep.Steps {
		log.Printf("step %-28s %s", st.Step, st.Elapsed)
	}
	log.Printf("processed %d frames in %s", len(processed), rep.Total)

	if db != nil {
		run := ispdb.NewRun(*burstID, processed, rep)
		if err := db.Runs().Insert(run); err != nil {
			log.Fatalf("record run: %v", err)
		}
		log.Printf("recorded run %s", run.RunID)
	}
}
