package sim

import (
	"context"
	"testing"

	"github.com/san-kum/railsim/internal/render"
	"github.com/san-kum/railsim/internal/scene"
	"github.com/san-kum/railsim/internal/train"
)

type countMetric struct {
	samples int
}

func (m *countMetric) Name() string                          { return "samples" }
func (m *countMetric) Observe(st State, in Input, t float64) { m.samples++ }
func (m *countMetric) Value() float64                        { return float64(m.samples) }
func (m *countMetric) Reset()                                { m.samples = 0 }

type recordObserver struct {
	states []State
	times  []float64
}

func (o *recordObserver) OnStep(st State, in Input, t float64) {
	o.states = append(o.states, st)
	o.times = append(o.times, t)
}

func demoSim(t *testing.T) *Simulator {
	t.Helper()
	sc, err := scene.Build(scene.Demo())
	if err != nil {
		t.Fatalf("scene.Build: %v", err)
	}
	return New(sc, train.New(train.DefaultParams()))
}

func shortSim(t *testing.T) *Simulator {
	t.Helper()
	sc, err := scene.Build(&scene.Description{
		Waypoints: []scene.WaypointDef{{X: 0, Y: 0}, {Y: 60}},
	})
	if err != nil {
		t.Fatalf("scene.Build: %v", err)
	}
	return New(sc, train.New(train.DefaultParams()))
}

func fullThrottle(t float64) Input { return Input{Throttle: 1} }

func TestRun_ValidatesConfig(t *testing.T) {
	s := demoSim(t)
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 10}},
		{"negative dt", Config{Dt: -0.1, Duration: 10}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), fullThrottle, tt.cfg); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestRun_FullThrottle(t *testing.T) {
	s := demoSim(t)
	m := &countMetric{}
	s.AddMetric(m)

	res, err := s.Run(context.Background(), fullThrottle, Config{Dt: 0.05, Duration: 60})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.States) < 2 || len(res.States) != len(res.Times) {
		t.Fatalf("states/times: %d/%d", len(res.States), len(res.Times))
	}
	for i := 1; i < len(res.Times); i++ {
		if res.Times[i] <= res.Times[i-1] {
			t.Fatal("times not strictly increasing")
		}
	}
	for _, st := range res.States {
		if st.V > st.Limit+1e-9 {
			t.Fatalf("speed %v above limit %v at s=%v", st.V, st.Limit, st.S)
		}
	}
	if res.Metrics["samples"] == 0 {
		t.Error("metric never observed")
	}
	if len(res.Errors) != 0 {
		t.Errorf("run errors: %v", res.Errors)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	s := demoSim(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, fullThrottle, Config{Dt: 0.05, Duration: 60})
	if err != context.Canceled {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestRun_StopsAtEndOfLine(t *testing.T) {
	s := shortSim(t)
	res, err := s.Run(context.Background(), fullThrottle, Config{Dt: 0.05, Duration: 600})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !s.Train().Done() {
		t.Fatal("train never finished the line")
	}
	last := res.States[len(res.States)-1]
	if last.S != s.Scene().Track.Total() || last.V != 0 {
		t.Errorf("final state s=%v v=%v", last.S, last.V)
	}

	var ends int
	for _, ev := range res.Events {
		if _, ok := ev.(train.EndOfLine); ok {
			ends++
		}
	}
	if ends != 1 {
		t.Errorf("got %d end-of-line events, want 1", ends)
	}
}

func TestFrame_ObserverSeesPostStepState(t *testing.T) {
	s := demoSim(t)
	o := &recordObserver{}
	s.AddObserver(o)

	s.Frame(Input{Throttle: 1}, 0.1, nil)
	if len(o.states) != 1 {
		t.Fatalf("got %d observations, want 1", len(o.states))
	}
	if o.states[0].V != s.Train().V {
		t.Errorf("observer saw v=%v, train at v=%v", o.states[0].V, s.Train().V)
	}
	if o.states[0].V <= 0 {
		t.Error("observer saw pre-step state")
	}
}

func TestFrame_PauseFreezesEverything(t *testing.T) {
	s := demoSim(t)
	o := &recordObserver{}
	s.AddObserver(o)

	before := s.Train().S
	s.Frame(Input{Throttle: 1, Pause: true}, 0.1, nil)
	if s.Train().S != before || s.Time() != 0 {
		t.Errorf("paused frame advanced: s=%v t=%v", s.Train().S, s.Time())
	}
	if len(o.states) != 0 {
		t.Error("paused frame notified observers")
	}
}

func TestFrame_CabCameraFollowsTrain(t *testing.T) {
	s := demoSim(t)
	if s.Camera().Mode != render.CabView {
		t.Fatal("default camera mode is not cab view")
	}
	for i := 0; i < 50; i++ {
		s.Frame(Input{Throttle: 1}, 0.1, nil)
	}
	pose := s.Scene().Track.PositionAt(s.Train().S)
	if s.Camera().Position.Distance(pose.Position) > 5 {
		t.Errorf("camera %v far from cab at %v", s.Camera().Position, pose.Position)
	}
}
