// Command run-compare summarises recorded pipeline runs for one burst so
// algorithm variants can be compared offline: per-step timing statistics
// across runs plus the output-sample statistics of each run.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/burstlab/internal/ispdb"
)

type config struct {
	DBPath     string
	BurstID    string
	Limit      int
	OutputJSON string
}

// stepStats aggregates one step's elapsed time across runs.
type stepStats struct {
	Step   string  `json:"step"`
	Runs   int     `json:"runs"`
	MeanMs float64 `json:"mean_ms"`
	MinMs  float64 `json:"min_ms"`
	MaxMs  float64 `json:"max_ms"`
}

type comparison struct {
	BurstID  string       `json:"burst_id"`
	RunCount int          `json:"run_count"`
	PerStep  []stepStats  `json:"per_step"`
	Runs     []*ispdb.Run `json:"runs"`
}

func main() {
	cfg := parseFlags()
	if cfg.BurstID == "" {
		log.Fatal("-burst is required")
	}

	db, err := ispdb.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	runs, err := db.Runs().ListByBurst(cfg.BurstID)
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}
	if len(runs) == 0 {
		log.Fatalf("no recorded runs for burst %q", cfg.BurstID)
	}
	if cfg.Limit > 0 && len(runs) > cfg.Limit {
		runs = runs[:cfg.Limit]
	}

	result := compare(cfg.BurstID, runs)
	printResults(result)

	if cfg.OutputJSON != "" {
		if err := exportJSON(result, cfg.OutputJSON); err != nil {
			log.Fatalf("export JSON: %v", err)
		}
		log.Printf("results exported to %s", cfg.OutputJSON)
	}
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.DBPath, "db", "isp.db", "Calibration/run database path")
	flag.StringVar(&cfg.BurstID, "burst", "", "Burst ID to compare runs for")
	flag.IntVar(&cfg.Limit, "limit", 0, "Only consider the N most recent runs (0 = all)")
	flag.StringVar(&cfg.OutputJSON, "json", "", "Write the comparison as JSON to this path")
	flag.Parse()
	return cfg
}

func compare(burstID string, runs []*ispdb.Run) *comparison {
	// Step order follows the newest run; stray steps from older
	// configurations are appended as encountered.
	var order []string
	elapsed := make(map[string][]float64)
	for _, run := range runs {
		for _, st := range run.Steps {
			if _, seen := elapsed[st.Step]; !seen {
				order = append(order, st.Step)
			}
			elapsed[st.Step] = append(elapsed[st.Step], float64(st.ElapsedNS)/float64(time.Millisecond))
		}
	}

	result := &comparison{BurstID: burstID, RunCount: len(runs), Runs: runs}
	for _, step := range order {
		ms := elapsed[step]
		result.PerStep = append(result.PerStep, stepStats{
			Step:   step,
			Runs:   len(ms),
			MeanMs: stat.Mean(ms, nil),
			MinMs:  floats.Min(ms),
			MaxMs:  floats.Max(ms),
		})
	}
	return result
}

func printResults(result *comparison) {
	fmt.Printf("burst %s: %d recorded runs\n", result.BurstID, result.RunCount)

	fmt.Println("\nper-step timings across runs:")
	for _, st := range result.PerStep {
		fmt.Printf("  %-28s runs=%-3d mean=%.2fms min=%.2fms max=%.2fms\n",
			st.Step, st.Runs, st.MeanMs, st.MinMs, st.MaxMs)
	}

	fmt.Println("\nruns (newest first):")
	for _, run := range result.Runs {
		fmt.Printf("  %s  frames=%d total=%s mean=%.4f min=%.4f max=%.4f\n",
			run.RunID, run.FrameCount, time.Duration(run.TotalNanos),
			run.MeanSample, run.MinSample, run.MaxSample)
	}
}

func exportJSON(result *comparison, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
