/*
Package state persists the end of the last successful run so that consecutive
runs query contiguous, non-overlapping date windows.
*/
package state

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	stateFileName = "state.json"

	// DefaultLookbackDays is the window used on the very first run,
	// when no state exists yet.
	DefaultLookbackDays = 3
)

// RunState is the single persisted record.
type RunState struct {
	LastRunEnd      time.Time `json:"last_run_end"`
	LastRunPapers   int       `json:"last_run_papers"`
	LastRunIndustry int       `json:"last_run_industry"`
}

// Manager owns the state file. Load happens once at construction; Record is
// called once by the orchestrator after a fully successful non-dry run.
type Manager struct {
	stateFilePath string
	state         RunState
}

// NewManager loads (or initializes) run state under dir.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	m := &Manager{
		stateFilePath: filepath.Join(dir, stateFileName),
	}

	m.loadState()
	return m, nil
}

func (m *Manager) loadState() {
	data, err := os.ReadFile(m.stateFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("State file %s not found. Treating this as the first run.", m.stateFilePath)
			return
		}
		log.Printf("Error reading state file (%s): %v. Treating this as the first run.", m.stateFilePath, err)
		return
	}

	var loaded RunState
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("Error unmarshalling state JSON: %v. Treating this as the first run.", err)
		return
	}

	m.state = loaded
	if !loaded.LastRunEnd.IsZero() {
		log.Printf("Loaded run state: last run ended %s (%d papers, %d industry).",
			loaded.LastRunEnd.Format(time.RFC3339), loaded.LastRunPapers, loaded.LastRunIndustry)
	}
}

// Window computes the [start, end) range for this run.
//
// An explicit override of N days always wins and ignores stored state.
// Otherwise the window starts exactly where the last successful run ended,
// so back-to-back runs partition time with no gap and no overlap. With no
// stored state the default lookback applies.
func (m *Manager) Window(overrideLookbackDays int, now time.Time) (start, end time.Time) {
	end = now

	if overrideLookbackDays > 0 {
		start = now.Add(-time.Duration(overrideLookbackDays) * 24 * time.Hour)
		log.Printf("Using explicit lookback: %d days (window starts %s).", overrideLookbackDays, start.Format("2006-01-02"))
		return start, end
	}

	if !m.state.LastRunEnd.IsZero() {
		start = m.state.LastRunEnd
		log.Printf("Resuming from last run: window starts %s.", start.Format(time.RFC3339))
		return start, end
	}

	start = now.Add(-DefaultLookbackDays * 24 * time.Hour)
	log.Printf("No previous run found. Defaulting to %d-day lookback (window starts %s).",
		DefaultLookbackDays, start.Format("2006-01-02"))
	return start, end
}

// Record persists the end of a successful run along with paper counts.
func (m *Manager) Record(end time.Time, totalPapers, industryPapers int) error {
	m.state = RunState{
		LastRunEnd:      end,
		LastRunPapers:   totalPapers,
		LastRunIndustry: industryPapers,
	}

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	if err := os.WriteFile(m.stateFilePath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", m.stateFilePath, err)
	}

	log.Printf("Run state saved to %s. Next run picks up from %s.", m.stateFilePath, end.Format(time.RFC3339))
	return nil
}

// StateFilePath returns the location of the persisted state file.
func (m *Manager) StateFilePath() string {
	return m.stateFilePath
}
