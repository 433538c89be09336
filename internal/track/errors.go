package track

import "fmt"

// DegenerateTrackError is returned by New when the waypoint list cannot
// form a usable curve. It is fatal: the simulation cannot start.
type DegenerateTrackError struct {
	Reason  string
	Segment int // index of the offending segment, -1 if not applicable
}

func (e *DegenerateTrackError) Error() string {
	if e.Segment >= 0 {
		return fmt.Sprintf("track: degenerate track: %s (segment %d)", e.Reason, e.Segment)
	}
	return fmt.Sprintf("track: degenerate track: %s", e.Reason)
}

// OverlappingStationError is returned by New when station ranges overlap
// or lie outside the track bounds. It is fatal: the simulation cannot start.
type OverlappingStationError struct {
	Station string
	Reason  string
}

func (e *OverlappingStationError) Error() string {
	return fmt.Sprintf("track: station %q: %s", e.Station, e.Reason)
}
