// Package track models the rail path as a continuous curve parametrized
// by arc-length. Waypoints define piecewise-linear segments; cumulative
// segment lengths are precomputed at load time so position queries are
// a binary search plus local interpolation.
package track

import (
	"math"
	"sort"

	"github.com/san-kum/railsim/internal/geom"
)

const (
	// minSegment rejects zero-length segments at load time.
	minSegment = 1e-9

	// curveLookahead is the arc-length window (metres) over which the
	// tangent change rate approximates curvature.
	curveLookahead = 25.0
)

// Waypoint is one control point of the rail path. Bank is the roll
// angle in radians applied to the up vector, positive tilting right.
type Waypoint struct {
	Pos  geom.Vec3
	Bank float64
}

// Station is an arc-length range on the track. Stop marks stations the
// train is required to halt at.
type Station struct {
	Name  string
	Start float64
	End   float64
	Stop  bool
}

// Pose is the result of a position query: a point on the track with
// its forward tangent and up vector, both unit length.
type Pose struct {
	Position geom.Vec3
	Forward  geom.Vec3
	Up       geom.Vec3
}

// Track is immutable after New and safe for concurrent reads.
type Track struct {
	points   []Waypoint
	dirs     []geom.Vec3 // unit direction of each segment, len(points)-1
	cum      []float64   // cumulative arc-length at each waypoint, cum[0] = 0
	total    float64
	stations []Station

	// maxLateralAccel bounds the comfortable lateral acceleration used
	// to derive curve speed caps (m/s^2).
	maxLateralAccel float64
}

// New validates the waypoints and stations and precomputes arc-lengths.
func New(waypoints []Waypoint, stations []Station) (*Track, error) {
	if len(waypoints) < 2 {
		return nil, &DegenerateTrackError{Reason: "fewer than 2 waypoints", Segment: -1}
	}

	dirs := make([]geom.Vec3, len(waypoints)-1)
	cum := make([]float64, len(waypoints))
	for i := 0; i < len(waypoints)-1; i++ {
		d := waypoints[i+1].Pos.Sub(waypoints[i].Pos)
		l := d.Length()
		if l < minSegment {
			return nil, &DegenerateTrackError{Reason: "zero-length segment", Segment: i}
		}
		dirs[i] = d.Scale(1 / l)
		cum[i+1] = cum[i] + l
	}
	total := cum[len(cum)-1]

	sorted := make([]Station, len(stations))
	copy(sorted, stations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i, st := range sorted {
		if st.Start >= st.End {
			return nil, &OverlappingStationError{Station: st.Name, Reason: "empty range"}
		}
		if st.Start < 0 || st.End > total {
			return nil, &OverlappingStationError{Station: st.Name, Reason: "outside track bounds"}
		}
		if i > 0 && st.Start < sorted[i-1].End {
			return nil, &OverlappingStationError{Station: st.Name, Reason: "overlaps " + sorted[i-1].Name}
		}
	}

	return &Track{
		points:          waypoints,
		dirs:            dirs,
		cum:             cum,
		total:           total,
		stations:        sorted,
		maxLateralAccel: DefaultLateralAccel,
	}, nil
}

// Total returns the arc-length of the whole track.
func (t *Track) Total() float64 { return t.total }

// Stations returns the stations ordered by their start position.
func (t *Track) Stations() []Station { return t.stations }

// SetLateralAccel overrides the lateral acceleration bound used for
// curve speed caps. Must be called before the simulation starts.
func (t *Track) SetLateralAccel(a float64) {
	if a > 0 {
		t.maxLateralAccel = a
	}
}

// segment locates the segment containing arc-length s (already clamped)
// and the offset within it.
func (t *Track) segment(s float64) (int, float64) {
	// First index with cum[i] >= s; the segment is the one before it.
	i := sort.SearchFloat64s(t.cum, s)
	if i > 0 {
		i--
	}
	if i >= len(t.dirs) {
		i = len(t.dirs) - 1
	}
	return i, s - t.cum[i]
}

// PositionAt returns the pose at arc-length s, clamped to [0, Total].
// Out-of-range queries are recovered by clamping, never reported as
// errors: physical motion is bounded by the track length.
func (t *Track) PositionAt(s float64) Pose {
	s = geom.Clamp(s, 0, t.total)
	i, off := t.segment(s)

	segLen := t.cum[i+1] - t.cum[i]
	u := off / segLen
	pos := t.points[i].Pos.Lerp(t.points[i+1].Pos, u)

	fwd := t.tangent(i, off, segLen)
	up := t.up(fwd, geom.Lerp(t.points[i].Bank, t.points[i+1].Bank, u))
	return Pose{Position: pos, Forward: fwd, Up: up}
}

// tangentBlend is the arc-length half-window (metres) around each
// interior waypoint over which the forward vector turns from one
// segment direction to the next. Outside the window the tangent is the
// raw segment direction, so curvature stays localized to the corners
// and vanishes mid-straight.
const tangentBlend = 12.0

func (t *Track) tangent(i int, off, segLen float64) geom.Vec3 {
	r := math.Min(tangentBlend, segLen/2)
	if i > 0 && off < r {
		if f := t.corner(i).Lerp(t.dirs[i], off/r).Normalize(); f != (geom.Vec3{}) {
			return f
		}
	}
	if i < len(t.dirs)-1 && off > segLen-r {
		if f := t.dirs[i].Lerp(t.corner(i+1), (off-(segLen-r))/r).Normalize(); f != (geom.Vec3{}) {
			return f
		}
	}
	return t.dirs[i]
}

// corner is the blended direction at interior waypoint j, shared by the
// blend windows on both sides so the tangent is continuous across it.
func (t *Track) corner(j int) geom.Vec3 {
	d := t.dirs[j-1].Add(t.dirs[j]).Normalize()
	if d == (geom.Vec3{}) { // opposite directions cancel out
		return t.dirs[j]
	}
	return d
}

// up projects world-up orthogonal to the forward tangent, then applies
// the banking roll around it.
func (t *Track) up(fwd geom.Vec3, bank float64) geom.Vec3 {
	u := geom.Up().Sub(fwd.Scale(geom.Up().Dot(fwd))).Normalize()
	if u == (geom.Vec3{}) {
		// Vertical track segment; any horizontal axis will do.
		u = geom.V(0, 1, 0).Sub(fwd.Scale(geom.V(0, 1, 0).Dot(fwd))).Normalize()
	}
	if bank == 0 {
		return u
	}
	right := fwd.Cross(u)
	return u.Scale(math.Cos(bank)).Add(right.Scale(math.Sin(bank)))
}

// CurvatureAt approximates curvature at s as the tangent change rate
// over a short lookahead window (1/metres).
func (t *Track) CurvatureAt(s float64) float64 {
	s = geom.Clamp(s, 0, t.total)
	ahead := math.Min(s+curveLookahead, t.total)
	ds := ahead - s
	if ds < minSegment {
		// At the very end of the line, look backward instead.
		ahead = s
		s = math.Max(0, s-curveLookahead)
		ds = ahead - s
		if ds < minSegment {
			return 0
		}
	}
	a := t.PositionAt(s).Forward
	b := t.PositionAt(ahead).Forward
	angle := math.Acos(geom.Clamp(a.Dot(b), -1, 1))
	return angle / ds
}

// StationAt returns the index of the station whose range contains s.
func (t *Track) StationAt(s float64) (int, bool) {
	for i, st := range t.stations {
		if s >= st.Start && s <= st.End {
			return i, true
		}
	}
	return 0, false
}

// NextStation returns the index of the first station starting at or
// after s.
func (t *Track) NextStation(s float64) (int, bool) {
	for i, st := range t.stations {
		if st.End >= s {
			return i, true
		}
	}
	return 0, false
}
