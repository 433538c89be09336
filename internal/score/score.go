package score

import "math"

// SectionScore grades one station-to-station leg. Stars are 0-5 per
// category; points are the large running totals shown on the HUD.
type SectionScore struct {
	Time      float64 // remaining time at the stop, negative if late
	TimeStars int

	Distance      float64 // signed stop error, metres
	DistanceStars int

	Speeding      float64 // seconds above the limit
	SpeedingStars int

	Stars  int
	Points float64
}

// NewSectionScore grades a completed stop from the remaining time, the
// signed stop error and the accumulated speeding time.
func NewSectionScore(remaining, stopError, speeding float64) *SectionScore {
	s := &SectionScore{Time: remaining, Distance: stopError, Speeding: speeding}

	late := math.Max(0, -remaining)
	timePoints := math.Max(0, remaining+10) * 10
	switch {
	case late < 8:
		s.TimeStars = 5
	case late < 12:
		s.TimeStars = 4
	case late < 15:
		s.TimeStars = 3
	case late < 20:
		s.TimeStars = 2
	case late < 30:
		s.TimeStars = 1
	}

	dist := math.Abs(stopError)
	distPoints := 400 / math.Max(0.5, dist+0.5)
	switch {
	case dist < 0.5:
		s.DistanceStars = 5
	case dist < 1.5:
		s.DistanceStars = 4
	case dist < 4:
		s.DistanceStars = 3
	case dist < 6:
		s.DistanceStars = 2
	case dist < 8.5:
		s.DistanceStars = 1
	}

	speedingPoints := 200 / math.Max(1, speeding+1)
	switch {
	case speeding < 1:
		s.SpeedingStars = 5
	case speeding < 3:
		s.SpeedingStars = 4
	case speeding < 8:
		s.SpeedingStars = 3
	case speeding < 14:
		s.SpeedingStars = 2
	case speeding < 20:
		s.SpeedingStars = 1
	}

	s.Points = timePoints + distPoints + speedingPoints
	s.Stars = int(math.Ceil(float64(s.TimeStars+s.DistanceStars+s.SpeedingStars) / 3))
	return s
}

// ApplyCap limits the stars after overrun penalties and scales the
// points down in proportion.
func (s *SectionScore) ApplyCap(maxStars int) {
	if s.Stars > maxStars {
		s.Stars = maxStars
	}
	s.Points *= float64(maxStars) / 5
}

// SessionScore aggregates the sections of one ride.
type SessionScore struct {
	Sections []*SectionScore
	Points   float64
	Stars    float64
}

func NewSessionScore() *SessionScore {
	return &SessionScore{}
}

// Empty reports whether any section has been recorded.
func (s *SessionScore) Empty() bool { return len(s.Sections) == 0 }

// Add records a section score and refreshes the totals.
func (s *SessionScore) Add(sec *SectionScore) {
	s.Sections = append(s.Sections, sec)
	s.Points = 0
	stars := 0
	for _, sc := range s.Sections {
		s.Points += sc.Points
		stars += sc.Stars
	}
	s.Stars = float64(stars) / float64(len(s.Sections))
}
