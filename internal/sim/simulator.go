package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/railsim/internal/render"
	"github.com/san-kum/railsim/internal/scene"
	"github.com/san-kum/railsim/internal/train"
)

// defaultCars is how many cars the train mesh shows when the config
// does not say.
const defaultCars = 3

// Simulator ties scene, train and camera together. It is the only
// writer of the train and camera; the scene is never mutated.
type Simulator struct {
	scene    *scene.Scene
	train    *train.Train
	cam      *render.Camera
	renderer render.Renderer

	metrics   []Metric
	observers []Observer

	time float64
	cars int
}

func New(sc *scene.Scene, tr *train.Train) *Simulator {
	return &Simulator{
		scene: sc,
		train: tr,
		cam:   render.NewCamera(),
		cars:  defaultCars,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Scene() *scene.Scene        { return s.scene }
func (s *Simulator) Train() *train.Train        { return s.train }
func (s *Simulator) Camera() *render.Camera     { return s.cam }
func (s *Simulator) Renderer() *render.Renderer { return &s.renderer }
func (s *Simulator) Time() float64              { return s.time }

// SetCars sets how many cars the train mesh shows.
func (s *Simulator) SetCars(n int) {
	if n > 0 {
		s.cars = n
	}
}

// State samples the train.
func (s *Simulator) State() State {
	return State{
		S:     s.train.S,
		V:     s.train.V,
		A:     s.train.A,
		Limit: s.scene.Track.SpeedLimitAt(s.train.S),
		Phase: s.train.Phase,
	}
}

// Frame advances one interactive frame in strict order: input,
// dynamics, camera, rasterize, observers. A nil surface skips the
// drawing stage.
func (s *Simulator) Frame(in Input, dt float64, sf render.Surface) []train.Event {
	s.renderer.Wireframe = in.Debug

	var events []train.Event
	if !in.Pause {
		events = s.train.Step(s.scene.Track, train.Input{Throttle: in.Throttle}, dt)
		s.time += dt
	}

	if s.cam.Mode == render.CabView {
		s.cam.Attach(s.scene.Track.PositionAt(s.train.S))
	} else {
		s.cam.Rotate(in.LookYaw, in.LookPitch)
		s.cam.Move(in.Move)
	}

	if sf != nil {
		frame := make([]render.Triangle, 0, len(s.scene.Static)+s.cars*12)
		frame = append(frame, s.scene.Static...)
		frame = append(frame, scene.TrainMesh(s.scene.Track, s.train.S, s.cars)...)
		s.renderer.Draw(s.cam, frame, sf)
	}

	if !in.Pause {
		st := s.State()
		for _, m := range s.metrics {
			m.Observe(st, in, s.time)
		}
		for _, o := range s.observers {
			o.OnStep(st, in, s.time)
		}
	}
	return events
}

// Run drives the train headless with the given input profile at a
// fixed step. It stops at the configured duration, at the end of the
// line, or when the context is canceled.
func (s *Simulator) Run(ctx context.Context, profile func(t float64) Input, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Cars > 0 {
		s.cars = cfg.Cars
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.States = append(result.States, s.State())
	result.Times = append(result.Times, s.time)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		in := profile(s.time)
		in.Pause = false
		events := s.Frame(in, cfg.Dt, nil)
		result.Events = append(result.Events, events...)

		st := s.State()
		if math.IsNaN(st.S) || math.IsNaN(st.V) {
			result.Errors = append(result.Errors, &SimError{
				Time: s.time, Step: i, Message: "non-finite train state",
			})
			break
		}
		result.States = append(result.States, st)
		result.Times = append(result.Times, s.time)

		if s.train.Done() {
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
