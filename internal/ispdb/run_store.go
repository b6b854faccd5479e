package ispdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/burstlab/internal/isp/pipeline"
	"github.com/banshee-data/burstlab/internal/raw"
)

// Run is one persisted pipeline execution: which steps ran, how long each
// took, and summary statistics of the processed reference frame. Used to
// compare algorithm variants across runs of the same burst.
type Run struct {
	RunID      string    `json:"run_id"`
	BurstID    string    `json:"burst_id"`
	FrameCount int       `json:"frame_count"`
	Steps      []RunStep `json:"steps"`
	TotalNanos int64     `json:"total_ns"`
	MeanSample float64   `json:"mean_sample"`
	MinSample  float64   `json:"min_sample"`
	MaxSample  float64   `json:"max_sample"`
	CreatedAt  int64     `json:"created_at"`
}

// RunStep is one step timing within a persisted run.
type RunStep struct {
	Step      string `json:"step"`
	ElapsedNS int64  `json:"elapsed_ns"`
}

// RunStore persists pipeline run records.
type RunStore struct {
	db *sql.DB
}

// NewRun assembles a run record from a finished pipeline execution. The
// reference frame's statistics summarise the processed output.
func NewRun(burstID string, images []*raw.Image, rep *pipeline.Report) *Run {
	run := &Run{
		RunID:      uuid.New().String(),
		BurstID:    burstID,
		FrameCount: len(images),
		TotalNanos: rep.Total.Nanoseconds(),
		CreatedAt:  time.Now().UnixNano(),
	}
	for _, st := range rep.Steps {
		run.Steps = append(run.Steps, RunStep{Step: st.Step.String(), ElapsedNS: st.Elapsed.Nanoseconds()})
	}
	if len(images) > 0 && len(images[0].Pix) > 0 {
		pix := images[0].Pix
		run.MeanSample = stat.Mean(pix, nil)
		run.MinSample = floats.Min(pix)
		run.MaxSample = floats.Max(pix)
	}
	return run
}

// Insert persists a run record. A missing RunID gets a fresh UUID.
func (s *RunStore) Insert(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	steps, err := json.Marshal(run.Steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO runs (
			run_id, burst_id, frame_count, steps_json, total_ns,
			mean_sample, min_sample, max_sample, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.BurstID, run.FrameCount, string(steps), run.TotalNanos,
		run.MeanSample, run.MinSample, run.MaxSample, run.CreatedAt)
	return err
}

// ListByBurst returns all runs for a burst, newest first.
func (s *RunStore) ListByBurst(burstID string) ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, burst_id, frame_count, steps_json, total_ns,
		       mean_sample, min_sample, max_sample, created_at
		FROM runs
		WHERE burst_id = ?
		ORDER BY created_at DESC`, burstID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var steps string
		if err := rows.Scan(&run.RunID, &run.BurstID, &run.FrameCount, &steps, &run.TotalNanos,
			&run.MeanSample, &run.MinSample, &run.MaxSample, &run.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(steps), &run.Steps); err != nil {
			return nil, fmt.Errorf("decode steps for run %s: %w", run.RunID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
