// Package metrics holds sim.Metric implementations that grade a run.
package metrics

import (
	"github.com/san-kum/railsim/internal/sim"
)

// MaxSpeed records the highest speed reached, m/s.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(st sim.State, in sim.Input, t float64) {
	if st.V > m.max {
		m.max = st.V
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// speedingTolerance keeps rounding noise at the cap from counting as
// speeding (m/s).
const speedingTolerance = 0.1

// SpeedingTime accumulates seconds spent above the active limit.
type SpeedingTime struct {
	name  string
	total float64
	lastT float64
	seen  bool
}

func NewSpeedingTime() *SpeedingTime {
	return &SpeedingTime{name: "speeding_time"}
}

func (m *SpeedingTime) Name() string { return m.name }

func (m *SpeedingTime) Observe(st sim.State, in sim.Input, t float64) {
	if m.seen && st.V > st.Limit+speedingTolerance {
		m.total += t - m.lastT
	}
	m.lastT = t
	m.seen = true
}

func (m *SpeedingTime) Value() float64 { return m.total }

func (m *SpeedingTime) Reset() {
	m.total = 0
	m.lastT = 0
	m.seen = false
}
