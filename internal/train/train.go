// Package train holds the longitudinal dynamics of the train: a point
// mass on the track's arc-length axis with throttle and brake limits,
// speed caps enforced against the track, and station stop bookkeeping.
package train

import (
	"math"

	"github.com/san-kum/railsim/internal/geom"
	"github.com/san-kum/railsim/internal/track"
)

// Phase is the coarse state of the train used by scoring and the HUD.
type Phase int

const (
	Stopped Phase = iota
	Accelerating
	Cruising
	Braking
	AtStation
)

func (p Phase) String() string {
	switch p {
	case Stopped:
		return "stopped"
	case Accelerating:
		return "accelerating"
	case Cruising:
		return "cruising"
	case Braking:
		return "braking"
	case AtStation:
		return "at_station"
	}
	return "unknown"
}

// Params are the physical limits of the train. Units are metres,
// seconds and their derivatives.
type Params struct {
	MaxAccel      float64 // m/s^2, full forward throttle
	MaxBrake      float64 // m/s^2, full service brake (positive)
	VMax          float64 // m/s, drivetrain limit
	StopThreshold float64 // m/s, below this inside a platform counts as stopped
	DwellTime     float64 // s, minimum hold at a station before departing
}

// DefaultParams returns limits for a light commuter unit.
func DefaultParams() Params {
	return Params{
		MaxAccel:      1.0,
		MaxBrake:      1.5,
		VMax:          track.LimitFull,
		StopThreshold: 0.5,
		DwellTime:     15,
	}
}

// Input is the per-step control snapshot the dynamics consume.
// Throttle is in [-1, 1]; negative values brake.
type Input struct {
	Throttle float64
}

// Event is something that happened during a Step.
type Event interface{ event() }

// StationArrival is emitted once when the train comes to rest inside a
// station's platform range.
type StationArrival struct {
	Station       int
	Time          float64
	ApproachSpeed float64 // speed on entering the platform range, m/s
}

// EndOfLine is emitted once when the train reaches the end of the track.
type EndOfLine struct {
	Time float64
}

func (StationArrival) event() {}
func (EndOfLine) event()      {}

// Train is mutable simulation state; one goroutine owns it.
type Train struct {
	S     float64
	V     float64
	A     float64
	Phase Phase

	// Station is the index of the station the train is currently
	// stopped at, -1 otherwise.
	Station int

	params     Params
	clock      float64
	dwell      float64
	entrySpeed float64 // speed on entering the current platform range
	arrived    map[int]bool
	done       bool
}

// New returns a train at rest at the start of the line.
func New(p Params) *Train {
	return &Train{
		Phase:   Stopped,
		Station: -1,
		params:  p,
		arrived: make(map[int]bool),
	}
}

// Params returns the train's physical limits.
func (t *Train) Params() Params { return t.params }

// Done reports whether the train has reached the end of the line.
func (t *Train) Done() bool { return t.done }

// Step advances the train by dt seconds against the given track and
// returns the events that occurred. Past the end of the line it is a
// no-op: the terminal state is idempotent.
func (t *Train) Step(trk *track.Track, in Input, dt float64) []Event {
	if dt <= 0 {
		return nil
	}
	t.clock += dt
	if t.done {
		t.A = 0
		return nil
	}

	if t.Phase == AtStation {
		return t.stepAtStation(in, dt)
	}

	throttle := geom.Clamp(in.Throttle, -1, 1)
	a := throttle * t.params.MaxAccel
	if throttle < 0 {
		a = throttle * t.params.MaxBrake
	}

	// Overspeed forces a full service brake no matter the input.
	limit := trk.SpeedLimitAt(t.S)
	if t.V > limit {
		a = -t.params.MaxBrake
	}

	v0 := t.V
	t.V = geom.Clamp(t.V+a*dt, 0, math.Min(t.params.VMax, limit))
	before := t.S
	t.S = geom.Clamp(t.S+t.V*dt, 0, trk.Total())

	// The cap can tighten between the old and new position; never let
	// the recorded speed exceed the cap where the train now is.
	t.V = math.Min(t.V, trk.SpeedLimitAt(t.S))
	t.A = (t.V - v0) / dt

	var events []Event

	if idx, ok := trk.StationAt(t.S); ok {
		if _, wasIn := trk.StationAt(before); !wasIn {
			t.entrySpeed = v0
		}
		if t.V < t.params.StopThreshold && !t.arrived[idx] {
			t.arrived[idx] = true
			t.V, t.A = 0, 0
			t.Phase = AtStation
			t.Station = idx
			t.dwell = 0
			return append(events, StationArrival{
				Station:       idx,
				Time:          t.clock,
				ApproachSpeed: t.entrySpeed,
			})
		}
	}

	if t.S >= trk.Total() {
		t.S = trk.Total()
		t.V, t.A = 0, 0
		t.done = true
		t.Phase = Stopped
		return append(events, EndOfLine{Time: t.clock})
	}

	t.updatePhase(throttle)
	return events
}

func (t *Train) stepAtStation(in Input, dt float64) []Event {
	t.dwell += dt
	t.V, t.A = 0, 0
	if t.dwell >= t.params.DwellTime && in.Throttle > 0 {
		t.Phase = Accelerating
		t.Station = -1
	}
	return nil
}

func (t *Train) updatePhase(throttle float64) {
	const eps = 1e-6
	switch {
	case t.V < eps:
		t.Phase = Stopped
	case t.A < -eps || throttle < -eps:
		t.Phase = Braking
	case t.A > eps:
		t.Phase = Accelerating
	default:
		t.Phase = Cruising
	}
}
