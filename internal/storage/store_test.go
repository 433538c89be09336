package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/railsim/internal/sim"
	"github.com/san-kum/railsim/internal/train"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		States: []sim.State{
			{S: 0, V: 0, A: 0, Limit: 11.1, Phase: train.Stopped},
			{S: 5, V: 2.5, A: 1, Limit: 11.1, Phase: train.Accelerating},
			{S: 100, V: 0, A: 0, Limit: 11.1, Phase: train.AtStation},
		},
		Times:   []float64{0, 2, 60},
		Metrics: map[string]float64{"max_speed": 9.5},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	cfg := sim.Config{Dt: 0.05, Duration: 60, Cars: 3}
	runID, err := st.Save("demo line", cfg, sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(runID, "drive_") {
		t.Errorf("run ID %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Scene != "demo line" || meta.Dt != 0.05 || meta.Cars != 3 {
		t.Errorf("metadata %+v", meta)
	}
	if meta.Metrics["max_speed"] != 9.5 {
		t.Errorf("metrics %v", meta.Metrics)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("LoadStates: %v", err)
	}
	if len(states) != 3 || len(times) != 3 {
		t.Fatalf("got %d states, %d times", len(states), len(times))
	}
	if states[1].V != 2.5 || states[1].Phase != train.Accelerating {
		t.Errorf("state[1] = %+v", states[1])
	}
	if states[2].Phase != train.AtStation {
		t.Errorf("state[2].Phase = %v", states[2].Phase)
	}
	if times[2] != 60 {
		t.Errorf("times[2] = %v", times[2])
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("fresh store listed %d runs", len(runs))
	}

	if _, err := st.Save("demo line", sim.Config{Dt: 0.05, Duration: 1}, sampleResult()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	runs, err = st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs, want 1", len(runs))
	}
}

func TestList_MissingBaseDir(t *testing.T) {
	st := New(t.TempDir() + "/never-created")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("listed %d runs from a missing dir", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	runID, err := st.Save("demo line", sim.Config{Dt: 0.05, Duration: 1}, sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(runID, &buf); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"metadata"`, `"states"`, `"demo line"`, `"max_speed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %s", want)
		}
	}
}
