package scene

import "math"

// Demo returns a built-in line so the simulator runs without an asset
// file: roughly three kilometres of gentle curves with three stops.
func Demo() *Description {
	pts := []WaypointDef{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 400, Z: 0},
		{X: 60, Y: 800, Z: 2, Bank: 0.06},
		{X: 220, Y: 1150, Z: 5, Bank: 0.08},
		{X: 460, Y: 1400, Z: 6},
		{X: 800, Y: 1520, Z: 6},
		{X: 1150, Y: 1520, Z: 4},
		{X: 1480, Y: 1400, Z: 2, Bank: -0.07},
		{X: 1720, Y: 1150, Z: 0, Bank: -0.05},
		{X: 1840, Y: 820, Z: 0},
		{X: 1840, Y: 400, Z: 0},
	}

	total := 0.0
	for i := 1; i < len(pts); i++ {
		dx := pts[i].X - pts[i-1].X
		dy := pts[i].Y - pts[i-1].Y
		dz := pts[i].Z - pts[i-1].Z
		total += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}

	at := func(f float64) (float64, float64) {
		mid := total * f
		return mid - 60, mid + 60
	}
	s1a, s1b := at(0.12)
	s2a, s2b := at(0.52)
	s3a, s3b := at(0.93)

	return &Description{
		Name:      "demo line",
		Seed:      7,
		Waypoints: pts,
		Stations: []StationDef{
			{Name: "Westfield", Start: s1a, End: s1b, Stop: true},
			{Name: "Lakeview", Start: s2a, End: s2b, Stop: true},
			{Name: "Eastgate", Start: s3a, End: s3b, Stop: true},
		},
	}
}
