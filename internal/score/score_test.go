package score

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/railsim/internal/geom"
	"github.com/san-kum/railsim/internal/track"
)

func TestPredictTime(t *testing.T) {
	if got := PredictTime(-5); got != 0 {
		t.Errorf("PredictTime(-5) = %v", got)
	}
	if got := PredictTime(0); got != 6 {
		t.Errorf("PredictTime(0) = %v, want the 6s floor", got)
	}

	// Longer legs get more time, sublinearly.
	t1 := PredictTime(1000)
	t2 := PredictTime(2000)
	if t2 <= t1 {
		t.Errorf("PredictTime not increasing: %v, %v", t1, t2)
	}
	if t2 >= 2*t1 {
		t.Errorf("PredictTime superlinear: %v vs 2x%v", t2, t1)
	}
}

func TestSectionScore_Stars(t *testing.T) {
	tests := []struct {
		name                string
		remaining, stop, sp float64
		time, dist, speed   int
	}{
		{"perfect", 20, 0.2, 0, 5, 5, 5},
		{"slightly late", -9, 0.2, 0, 4, 5, 5},
		{"very late", -40, 0.2, 0, 0, 5, 5},
		{"sloppy stop", 20, -5, 0, 5, 2, 5},
		{"overshot badly", 20, 9, 0, 5, 0, 5},
		{"some speeding", 20, 0.2, 5, 5, 5, 3},
		{"constant speeding", 20, 0.2, 25, 5, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSectionScore(tt.remaining, tt.stop, tt.sp)
			if s.TimeStars != tt.time {
				t.Errorf("TimeStars = %d, want %d", s.TimeStars, tt.time)
			}
			if s.DistanceStars != tt.dist {
				t.Errorf("DistanceStars = %d, want %d", s.DistanceStars, tt.dist)
			}
			if s.SpeedingStars != tt.speed {
				t.Errorf("SpeedingStars = %d, want %d", s.SpeedingStars, tt.speed)
			}
		})
	}

	perfect := NewSectionScore(20, 0.2, 0)
	if perfect.Stars != 5 {
		t.Errorf("perfect run = %d stars", perfect.Stars)
	}
	if perfect.Points <= 0 {
		t.Error("perfect run earned no points")
	}
}

func TestSectionScore_ApplyCap(t *testing.T) {
	s := NewSectionScore(20, 0.2, 0)
	points := s.Points
	s.ApplyCap(2)
	if s.Stars != 2 {
		t.Errorf("Stars = %d after cap, want 2", s.Stars)
	}
	if math.Abs(s.Points-points*2/5) > 1e-9 {
		t.Errorf("Points = %v, want scaled to %v", s.Points, points*2/5)
	}
}

func TestSessionScore(t *testing.T) {
	sess := NewSessionScore()
	if !sess.Empty() {
		t.Error("new session not empty")
	}
	sess.Add(NewSectionScore(20, 0.2, 0)) // 5 stars
	sess.Add(NewSectionScore(-40, 9, 25)) // 0 stars
	if sess.Empty() {
		t.Error("session with scores reports empty")
	}
	if math.Abs(sess.Stars-2.5) > 1e-9 {
		t.Errorf("Stars = %v, want 2.5", sess.Stars)
	}
	want := sess.Sections[0].Points + sess.Sections[1].Points
	if math.Abs(sess.Points-want) > 1e-9 {
		t.Errorf("Points = %v, want %v", sess.Points, want)
	}
}

func scoringTrack(t *testing.T) *track.Track {
	t.Helper()
	trk, err := track.New([]track.Waypoint{
		{Pos: geom.V(0, 0, 0)}, {Pos: geom.V(3000, 0, 0)},
	}, []track.Station{
		{Name: "a", Start: 900, End: 1000, Stop: true},
		{Name: "b", Start: 1900, End: 2000, Stop: true},
		{Name: "c", Start: 2800, End: 2900, Stop: true},
	})
	if err != nil {
		t.Fatalf("track.New: %v", err)
	}
	return trk
}

func TestSection_Stages(t *testing.T) {
	trk := scoringTrack(t)
	sec := NewSection(trk, -1, 40, 0)

	if sec.To != 0 || sec.Stage != Normal {
		t.Fatalf("initial section: to=%d stage=%v", sec.To, sec.Stage)
	}

	sec.UpdateStage(500, 20)
	if sec.Stage != Normal {
		t.Errorf("mid-leg stage = %v", sec.Stage)
	}

	sec.UpdateStage(920, 10)
	if sec.Stage != Approach {
		t.Errorf("on the platform at speed: stage = %v", sec.Stage)
	}

	// Stopped with the rear short of the platform start.
	sec.UpdateStage(930, 0)
	if sec.Stage != BadStop {
		t.Errorf("rear hanging out: stage = %v", sec.Stage)
	}

	sec.UpdateStage(980, 0)
	if sec.Stage != Stopped {
		t.Errorf("proper stop: stage = %v", sec.Stage)
	}
	if sec.Score == nil {
		t.Fatal("proper stop did not compute a score")
	}

	over := NewSection(trk, -1, 40, 0)
	over.UpdateStage(1050, 15)
	if over.Stage != Overrun {
		t.Errorf("past the platform: stage = %v", over.Stage)
	}
}

func TestSection_ExtendAfterOverrun(t *testing.T) {
	trk := scoringTrack(t)
	sec := NewSection(trk, -1, 40, 0)
	if !sec.Extend() {
		t.Fatal("Extend failed with stations remaining")
	}
	if sec.To != 1 || sec.MaxStars != 2 {
		t.Errorf("after extend: to=%d maxStars=%d", sec.To, sec.MaxStars)
	}

	sec.Extend()
	if sec.MaxStars != 1 {
		t.Errorf("second extend: maxStars=%d", sec.MaxStars)
	}
	if sec.Extend() {
		t.Error("Extend past the last station succeeded")
	}
}

func TestSection_Advance(t *testing.T) {
	trk := scoringTrack(t)
	sec := NewSection(trk, -1, 40, 0)
	next := sec.Advance(100)
	if next.From != 0 || next.To != 1 {
		t.Errorf("advanced section: from=%d to=%d", next.From, next.To)
	}
	if next.Distance <= 0 {
		t.Errorf("advanced distance = %v", next.Distance)
	}
	if next.PredictedTime <= 100 {
		t.Errorf("deadline %v not after start time", next.PredictedTime)
	}
}

func TestSection_TickSpeeding(t *testing.T) {
	trk := scoringTrack(t)
	sec := NewSection(trk, -1, 40, 0)

	sec.TickSpeeding(false, 0)
	sec.TickSpeeding(true, 1)  // starts the clock, nothing accrued yet
	sec.TickSpeeding(true, 2)  // +1s
	sec.TickSpeeding(false, 3) // pause
	sec.TickSpeeding(true, 4)
	sec.TickSpeeding(true, 5) // +1s
	if math.Abs(sec.SpeedingTime-2) > 1e-9 {
		t.Errorf("SpeedingTime = %v, want 2", sec.SpeedingTime)
	}
}

func TestHistory_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")

	h, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(h.Sessions) != 0 {
		t.Fatal("fresh history not empty")
	}

	sess, err := h.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	sess.Add(NewSectionScore(20, 0.2, 0))
	sess.Add(NewSectionScore(5, 1, 2))
	if err := h.EndSession(); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	again, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("LoadHistory after save: %v", err)
	}
	if len(again.Sessions) != 1 || len(again.Sections) != 2 {
		t.Fatalf("reloaded %d sessions, %d sections", len(again.Sessions), len(again.Sections))
	}
	if again.Sections[0].Session != 0 {
		t.Errorf("section keyed to session %d", again.Sections[0].Session)
	}
}

func TestHistory_EmptySessionNotRecorded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	h, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if _, err := h.NewSession(); err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := h.EndSession(); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if len(h.Sessions) != 0 {
		t.Error("empty session was recorded")
	}
}
