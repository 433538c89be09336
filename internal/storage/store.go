// Package storage persists headless runs: one directory per run with
// metadata.json and a states.csv trace.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/railsim/internal/sim"
	"github.com/san-kum/railsim/internal/train"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Cars      int                `json:"cars"`
	Metrics   map[string]float64 `json:"metrics"`
}

var stateHeader = []string{"time", "s", "v", "a", "limit", "phase"}

// Save writes one run directory named drive_<unix> and returns its ID.
func (s *Store) Save(sceneName string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("drive_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     sceneName,
		Timestamp: time.Now(),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Cars:      cfg.Cars,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(stateHeader); err != nil {
		return "", err
	}
	for i, st := range result.States {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(st.S, 'f', 6, 64),
			strconv.FormatFloat(st.V, 'f', 6, 64),
			strconv.FormatFloat(st.A, 'f', 6, 64),
			strconv.FormatFloat(st.Limit, 'f', 6, 64),
			strconv.Itoa(int(st.Phase)),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads back the state trace of a run.
func (s *Store) LoadStates(runID string) ([]sim.State, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []sim.State{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([]sim.State, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(stateHeader) {
			continue
		}
		vals := make([]float64, 5)
		bad := false
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(record[i], 64); err != nil {
				bad = true
				break
			}
		}
		phase, perr := strconv.Atoi(record[5])
		if bad || perr != nil {
			continue
		}
		times = append(times, vals[0])
		states = append(states, sim.State{
			S:     vals[1],
			V:     vals[2],
			A:     vals[3],
			Limit: vals[4],
			Phase: train.Phase(phase),
		})
	}

	return states, times, nil
}

// ExportJSON writes a run's metadata and trace as one JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	doc := struct {
		Metadata *RunMetadata `json:"metadata"`
		Times    []float64    `json:"times"`
		States   []sim.State  `json:"states"`
	}{meta, times, states}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
