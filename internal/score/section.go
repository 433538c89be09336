// Package score grades the ride: per-section timing, stop accuracy and
// speeding, aggregated into session totals with a persisted history.
package score

import (
	"math"

	"github.com/san-kum/railsim/internal/track"
)

// Stage is where the train is relative to the target station.
type Stage int

const (
	Normal   Stage = iota // running toward the next station
	Approach              // inside the platform range
	BadStop               // stopped with the rear short of the platform
	Stopped               // stopped properly at the platform
	Overrun               // ran past the platform without stopping
)

func (s Stage) String() string {
	switch s {
	case Normal:
		return "normal"
	case Approach:
		return "approach"
	case BadStop:
		return "bad stop"
	case Stopped:
		return "stopped"
	case Overrun:
		return "overrun"
	}
	return "unknown"
}

// PredictTime returns the expected transit time in seconds for a leg of
// the given length in metres. The power law was fitted to comfortable
// runs over the speed ladder.
func PredictTime(distance float64) float64 {
	if distance < 0 {
		return 0
	}
	return math.Ceil(1.45952667485293*math.Pow(distance, 0.559513460213026)) + 6
}

// Section is the ride between two adjacent stations. It must be
// advanced before the train leaves the target station.
type Section struct {
	From int // starting station index, -1 at the line start
	To   int // target station index

	StartTime     float64 // absolute, s
	StartS        float64
	Distance      float64
	PredictedTime float64 // absolute arrival deadline, s

	Stage        Stage
	SpeedingTime float64
	MaxStars     int

	trk      *track.Track
	trainLen float64
	speeding bool
	lastTick float64
	Score    *SectionScore
}

// NewSection starts the leg leaving station from (-1 for the line
// start) at the given time. trainLen is used to detect stops with the
// rear hanging out of the platform.
func NewSection(trk *track.Track, from int, trainLen, now float64) *Section {
	s := &Section{
		From:     from,
		To:       from + 1,
		trk:      trk,
		trainLen: trainLen,
		MaxStars: 5,
	}
	s.StartTime = now
	if from >= 0 {
		s.StartS = trk.Stations()[from].Start
	}
	s.retarget()
	return s
}

func (s *Section) retarget() {
	st := s.trk.Stations()[s.To]
	s.Distance = st.Start - s.StartS
	s.PredictedTime = s.StartTime + PredictTime(s.Distance)
	s.Stage = Normal
}

// Advance starts the next leg from the station just served.
func (s *Section) Advance(now float64) *Section {
	return NewSection(s.trk, s.To, s.trainLen, now)
}

// Extend retargets the following station after an overrun and halves
// the achievable stars.
func (s *Section) Extend() bool {
	if s.To+1 >= len(s.trk.Stations()) {
		return false
	}
	s.To++
	s.retarget()
	s.MaxStars /= 2
	return true
}

// Target returns the platform range of the target station.
func (s *Section) Target() track.Station {
	return s.trk.Stations()[s.To]
}

// RemainingTime is the time left to the predicted arrival, negative
// when late.
func (s *Section) RemainingTime(now float64) float64 {
	return s.PredictedTime - now
}

// StopError is the signed distance from the stop position to the ideal
// one just short of the platform end.
func (s *Section) StopError(trainS float64) float64 {
	return (s.Target().End - stopMargin) - trainS
}

// stopMargin is how far short of the platform end the ideal stop is.
const stopMargin = 4.0

// UpdateStage reclassifies the train position, returning true when the
// stage changed. A proper stop computes the section score once.
func (s *Section) UpdateStage(trainS, v float64) bool {
	st := s.Target()
	stage := Normal
	if trainS >= st.Start {
		stage = Approach
		rear := trainS - s.trainLen
		switch {
		case v == 0 && rear < st.Start:
			stage = BadStop
		case v == 0 && trainS <= st.End:
			stage = Stopped
		case trainS > st.End:
			stage = Overrun
		}
	}
	if stage == Stopped && s.Score == nil {
		s.calculateScore(trainS)
	}
	if stage == s.Stage {
		return false
	}
	s.Stage = stage
	return true
}

// TickSpeeding accumulates time spent above the limit. Call it every
// step, speeding or not.
func (s *Section) TickSpeeding(speeding bool, now float64) {
	if speeding && s.speeding {
		s.SpeedingTime += now - s.lastTick
	}
	s.speeding = speeding
	s.lastTick = now
}

func (s *Section) calculateScore(trainS float64) {
	sc := NewSectionScore(s.RemainingTime(s.lastTick), s.StopError(trainS), s.SpeedingTime)
	sc.ApplyCap(s.MaxStars)
	s.Score = sc
}
