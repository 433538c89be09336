// Package sim owns the frame loop: it advances the train, drives the
// camera and rasterizes the scene in a strict per-frame order, and can
// run headless for batch driving.
package sim

import (
	"github.com/san-kum/railsim/internal/geom"
	"github.com/san-kum/railsim/internal/train"
)

// Input is the per-frame control snapshot collected by a frontend.
// Look and Move are free-camera deltas for this frame.
type Input struct {
	Throttle  float64
	LookYaw   float64
	LookPitch float64
	Move      geom.Vec3
	Pause     bool
	Debug     bool
}

// State is one observed sample of the train.
type State struct {
	S     float64
	V     float64
	A     float64
	Limit float64
	Phase train.Phase
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(st State, in Input, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every simulation step.
type Observer interface {
	OnStep(st State, in Input, t float64)
}

// Config drives a headless run.
type Config struct {
	Dt       float64
	Duration float64
	Cars     int
}

// Result is everything a headless run produced.
type Result struct {
	States  []State
	Times   []float64
	Events  []train.Event
	Metrics map[string]float64
	Errors  []error
}
