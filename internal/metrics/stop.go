package metrics

import (
	"math"

	"github.com/san-kum/railsim/internal/sim"
	"github.com/san-kum/railsim/internal/train"
)

// StopAccuracy measures how far from the platform centers the train
// came to rest, averaged over all station stops, metres.
type StopAccuracy struct {
	name    string
	targets []float64
	sum     float64
	stops   int
	last    train.Phase
}

// NewStopAccuracy takes the arc-length centers of the platforms.
func NewStopAccuracy(targets []float64) *StopAccuracy {
	return &StopAccuracy{name: "stop_accuracy", targets: targets}
}

func (m *StopAccuracy) Name() string { return m.name }

func (m *StopAccuracy) Observe(st sim.State, in sim.Input, t float64) {
	if st.Phase == train.AtStation && m.last != train.AtStation && len(m.targets) > 0 {
		best := math.Inf(1)
		for _, target := range m.targets {
			if d := math.Abs(st.S - target); d < best {
				best = d
			}
		}
		m.sum += best
		m.stops++
	}
	m.last = st.Phase
}

func (m *StopAccuracy) Value() float64 {
	if m.stops == 0 {
		return 0
	}
	return m.sum / float64(m.stops)
}

func (m *StopAccuracy) Reset() {
	m.sum = 0
	m.stops = 0
	m.last = train.Stopped
}
