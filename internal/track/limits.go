package track

import (
	"math"
	"sort"
)

// Speeds are metres per second internally; the 120/60/40 km/h ladder
// mirrors the line speed classes of the signalling system.
const (
	LimitFull    = 120.0 / 3.6
	LimitMedium  = 60.0 / 3.6
	LimitSlow    = 40.0 / 3.6
	LimitStation = 40.0 / 3.6

	// DefaultLateralAccel is the comfortable lateral acceleration bound
	// from which curve speed caps are derived (m/s^2).
	DefaultLateralAccel = 1.2

	// Distances ahead of a stopping station where the line limit steps
	// down to medium and slow (metres).
	slowApproach   = 500.0
	mediumApproach = 2000.0
)

// Aspect is a signal indication.
type Aspect int

const (
	Proceed Aspect = iota // full line speed
	Limited               // 60 km/h
	Caution               // 40 km/h
	StopAspect
)

func (a Aspect) String() string {
	switch a {
	case Proceed:
		return "proceed"
	case Limited:
		return "limited"
	case Caution:
		return "caution"
	case StopAspect:
		return "stop"
	}
	return "unknown"
}

// Signal is a lineside signal at arc-length S showing Aspect.
type Signal struct {
	S      float64
	Aspect Aspect
}

// lineLimit is the speed class imposed by the signalling ladder: full
// line speed far from stations, stepping down on the approach to a
// stopping station and through its platform range.
func (t *Track) lineLimit(s float64) float64 {
	limit := LimitFull
	for _, st := range t.stations {
		if !st.Stop {
			continue
		}
		if s >= st.Start && s <= st.End {
			return LimitStation
		}
		if s < st.Start {
			d := st.Start - s
			switch {
			case d <= slowApproach:
				limit = math.Min(limit, LimitSlow)
			case d <= mediumApproach:
				limit = math.Min(limit, LimitMedium)
			}
			break // stations are ordered; later ones are farther away
		}
	}
	return limit
}

// curveLimit caps speed so lateral acceleration v^2*k stays within the
// configured bound. Straight track returns +Inf.
func (t *Track) curveLimit(s float64) float64 {
	k := t.CurvatureAt(s)
	if k < 1e-9 {
		return math.Inf(1)
	}
	return math.Sqrt(t.maxLateralAccel / k)
}

// SpeedLimitAt returns the active speed limit at s in m/s: the minimum
// of the signalling ladder and the curve cap, never above full line
// speed.
func (t *Track) SpeedLimitAt(s float64) float64 {
	return math.Min(t.lineLimit(s), t.curveLimit(s))
}

// Signals derives the lineside signals: one wherever the signalling
// ladder changes class between waypoints, plus a stop signal protecting
// each stopping station.
func (t *Track) Signals() []Signal {
	var signals []Signal
	prev := t.lineLimit(0)
	for i := 1; i < len(t.points); i++ {
		s := t.cum[i]
		limit := t.lineLimit(s)
		if limit != prev {
			signals = append(signals, Signal{S: s, Aspect: aspectFor(limit)})
			prev = limit
		}
	}
	for _, st := range t.stations {
		if st.Stop {
			signals = append(signals, Signal{S: st.Start, Aspect: StopAspect})
		}
	}
	sort.Slice(signals, func(i, j int) bool { return signals[i].S < signals[j].S })
	return signals
}

// NextSignal returns the first signal at or after s.
func (t *Track) NextSignal(signals []Signal, s float64) (Signal, bool) {
	for _, sg := range signals {
		if sg.S >= s {
			return sg, true
		}
	}
	return Signal{}, false
}

func aspectFor(limit float64) Aspect {
	switch {
	case limit >= LimitFull:
		return Proceed
	case limit >= LimitMedium:
		return Limited
	default:
		return Caution
	}
}
