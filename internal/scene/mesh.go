package scene

import (
	"math"
	"math/rand"

	"github.com/san-kum/railsim/internal/geom"
	"github.com/san-kum/railsim/internal/render"
	"github.com/san-kum/railsim/internal/track"
	"github.com/san-kum/railsim/internal/train"
)

// Track cross-section dimensions, metres.
const (
	halfGauge     = 0.72
	railWidth     = 0.15
	railHeight    = 0.2
	ballastWidth  = 3.0
	groundWidth   = 80.0
	meshStep      = 20.0 // subdivision step along the track
	platformSide  = 2.5  // platform offset right of the track center
	platformWidth = 4.0
	carLength     = 19.5
	carWidth      = 2.9
	carHeight     = 3.6
	carGap        = 0.8
)

var (
	grassColor    = render.Color{R: 66, G: 130, B: 58}
	ballastColor  = render.Color{R: 112, G: 104, B: 94}
	railColor     = render.Color{R: 82, G: 82, B: 90}
	platformColor = render.Color{R: 185, G: 176, B: 158}
	roofColor     = render.Color{R: 152, G: 62, B: 54}
	trunkColor    = render.Color{R: 96, G: 70, B: 44}
	leafColor     = render.Color{R: 36, G: 96, B: 44}
	wallColor     = render.Color{R: 206, G: 198, B: 180}
	trainColor    = render.Color{R: 52, G: 86, B: 158}
	postColor     = render.Color{R: 60, G: 60, B: 60}
)

func vec(x, y, z float64) geom.Vec3 { return geom.V(x, y, z) }

func shaded(base render.Color, normal geom.Vec3) render.Color {
	return render.Shade(base, normal, render.DefaultSun())
}

// quad emits two triangles for the vertices a,b,c,d, wound so that
// cross(b-a, c-a) is the outward normal. The color is shaded once per
// face against the fixed sun.
func quad(a, b, c, d geom.Vec3, base render.Color, layer int) []render.Triangle {
	n := b.Sub(a).Cross(c.Sub(a))
	col := shaded(base, n)
	return []render.Triangle{
		{P: [3]geom.Vec3{a, b, c}, Color: col, Layer: layer},
		{P: [3]geom.Vec3{a, c, d}, Color: col, Layer: layer},
	}
}

// box emits the six faces of a block centered at c with the given unit
// axes and half extents.
func box(c, fwd, right, up geom.Vec3, hl, hw, hh float64, base render.Color, layer int) []render.Triangle {
	f := fwd.Scale(hl)
	r := right.Scale(hw)
	u := up.Scale(hh)

	// Corners: [front/back][right/left][top/bottom].
	frt := c.Add(f).Add(r).Add(u)
	frb := c.Add(f).Add(r).Sub(u)
	flt := c.Add(f).Sub(r).Add(u)
	flb := c.Add(f).Sub(r).Sub(u)
	brt := c.Sub(f).Add(r).Add(u)
	brb := c.Sub(f).Add(r).Sub(u)
	blt := c.Sub(f).Sub(r).Add(u)
	blb := c.Sub(f).Sub(r).Sub(u)

	var tris []render.Triangle
	tris = append(tris, quad(flt, frt, frb, flb, base, layer)...) // front
	tris = append(tris, quad(brt, blt, blb, brb, base, layer)...) // back
	tris = append(tris, quad(frt, brt, brb, frb, base, layer)...) // right
	tris = append(tris, quad(blt, flt, flb, blb, base, layer)...) // left
	tris = append(tris, quad(blt, brt, frt, flt, base, layer)...) // top
	tris = append(tris, quad(flb, frb, brb, blb, base, layer)...) // bottom
	return tris
}

// cone emits the side faces of a cone, apex up.
func cone(base geom.Vec3, radius, height float64, segments int, col render.Color, layer int) []render.Triangle {
	apex := base.Add(geom.Up().Scale(height))
	tris := make([]render.Triangle, 0, segments)
	for i := 0; i < segments; i++ {
		a0 := float64(i) / float64(segments) * 2 * math.Pi
		a1 := float64(i+1) / float64(segments) * 2 * math.Pi
		p0 := base.Add(geom.V(radius*math.Cos(a0), radius*math.Sin(a0), 0))
		p1 := base.Add(geom.V(radius*math.Cos(a1), radius*math.Sin(a1), 0))
		n := p0.Sub(apex).Cross(p1.Sub(apex))
		tris = append(tris, render.Triangle{
			P: [3]geom.Vec3{apex, p0, p1}, Color: shaded(col, n), Layer: layer,
		})
	}
	return tris
}

// stripQuad emits one cross-track quad between arc-lengths s0 and s1
// at lateral offsets [l, r] from the center line and height dz.
func stripQuad(trk *track.Track, s0, s1, l, r, dz float64, col render.Color, layer int) []render.Triangle {
	p0 := trk.PositionAt(s0)
	p1 := trk.PositionAt(s1)
	r0 := p0.Forward.Cross(p0.Up)
	r1 := p1.Forward.Cross(p1.Up)

	a := p0.Position.Add(r0.Scale(l)).Add(p0.Up.Scale(dz))
	b := p0.Position.Add(r0.Scale(r)).Add(p0.Up.Scale(dz))
	c := p1.Position.Add(r1.Scale(r)).Add(p1.Up.Scale(dz))
	d := p1.Position.Add(r1.Scale(l)).Add(p1.Up.Scale(dz))
	// a,d are the left edge, b,c the right; wind so the normal is up.
	return quad(a, b, c, d, col, layer)
}

func buildGround(trk *track.Track) []render.Triangle {
	var tris []render.Triangle
	for s := 0.0; s < trk.Total(); s += meshStep * 2 {
		s1 := min(s+meshStep*2, trk.Total())
		tris = append(tris, stripQuad(trk, s, s1, -groundWidth/2, groundWidth/2, -0.05,
			grassColor, render.LayerGround)...)
	}
	return tris
}

func buildRails(trk *track.Track) []render.Triangle {
	var tris []render.Triangle
	for s := 0.0; s < trk.Total(); s += meshStep {
		s1 := min(s+meshStep, trk.Total())
		tris = append(tris, stripQuad(trk, s, s1, -ballastWidth/2, ballastWidth/2, 0,
			ballastColor, render.LayerRail)...)
		for _, off := range []float64{-halfGauge, halfGauge} {
			tris = append(tris, stripQuad(trk, s, s1, off-railWidth/2, off+railWidth/2,
				railHeight, railColor, render.LayerRail)...)
		}
	}
	return tris
}

func buildStation(trk *track.Track, st track.Station) []render.Triangle {
	mid := (st.Start + st.End) / 2
	pose := trk.PositionAt(mid)
	right := pose.Forward.Cross(pose.Up)
	center := pose.Position.Add(right.Scale(platformSide + platformWidth/2))
	length := st.End - st.Start

	var tris []render.Triangle
	tris = append(tris, box(center.Add(geom.Up().Scale(0.4)),
		pose.Forward, right, geom.Up(),
		length/2, platformWidth/2, 0.4, platformColor, render.LayerStation)...)
	// Canopy on posts over the platform.
	tris = append(tris, box(center.Add(geom.Up().Scale(3.6)),
		pose.Forward, right, geom.Up(),
		length/2, platformWidth/2+0.3, 0.15, roofColor, render.LayerStation)...)
	for _, ds := range []float64{-length / 2 * 0.8, length / 2 * 0.8} {
		p := trk.PositionAt(mid + ds)
		pc := p.Position.Add(right.Scale(platformSide + platformWidth/2)).Add(geom.Up().Scale(2.1))
		tris = append(tris, box(pc, pose.Forward, right, geom.Up(),
			0.08, 0.08, 1.3, postColor, render.LayerStation)...)
	}
	return tris
}

// buildProps scatters trees and houses beside the line. Placement is
// deterministic for a given seed.
func buildProps(trk *track.Track, seed int64) []render.Triangle {
	rng := rand.New(rand.NewSource(seed))
	count := int(trk.Total() / 45)

	var tris []render.Triangle
	for i := 0; i < count; i++ {
		s := rng.Float64() * trk.Total()
		side := 1.0
		if rng.Intn(2) == 0 {
			side = -1
		}
		offset := 10 + rng.Float64()*30
		pose := trk.PositionAt(s)
		right := pose.Forward.Cross(pose.Up)
		at := pose.Position.Add(right.Scale(side * offset))

		if rng.Float64() < 0.75 {
			h := 5 + rng.Float64()*6
			tris = append(tris, box(at.Add(geom.Up().Scale(h*0.15)),
				pose.Forward, right, geom.Up(),
				0.25, 0.25, h*0.15, trunkColor, render.LayerProp)...)
			tris = append(tris, cone(at.Add(geom.Up().Scale(h*0.2)),
				h*0.3, h*0.8, 6, leafColor, render.LayerProp)...)
		} else {
			w := 4 + rng.Float64()*4
			tris = append(tris, box(at.Add(geom.Up().Scale(1.6)),
				pose.Forward, right, geom.Up(),
				w/2, w/2*0.8, 1.6, wallColor, render.LayerProp)...)
			tris = append(tris, cone(at.Add(geom.Up().Scale(3.2)),
				w*0.7, w*0.4, 4, roofColor, render.LayerProp)...)
		}
	}
	return tris
}

func buildSignals(trk *track.Track) []render.Triangle {
	var tris []render.Triangle
	for _, sg := range trk.Signals() {
		pose := trk.PositionAt(sg.S)
		right := pose.Forward.Cross(pose.Up)
		base := pose.Position.Add(right.Scale(-2.2))

		tris = append(tris, box(base.Add(geom.Up().Scale(2.25)),
			pose.Forward, right, geom.Up(),
			0.07, 0.07, 2.25, postColor, render.LayerSignal)...)
		tris = append(tris, box(base.Add(geom.Up().Scale(4.7)),
			pose.Forward, right, geom.Up(),
			0.12, 0.3, 0.5, aspectColor(sg.Aspect), render.LayerSignal)...)
	}
	return tris
}

func aspectColor(a track.Aspect) render.Color {
	switch a {
	case track.Proceed:
		return render.Color{R: 40, G: 200, B: 70}
	case track.Limited:
		return render.Color{R: 230, G: 210, B: 40}
	case track.Caution:
		return render.Color{R: 235, G: 140, B: 30}
	}
	return render.Color{R: 220, G: 40, B: 40}
}

// TrainLength is the nose-to-tail length of a train with the given
// number of cars.
func TrainLength(cars int) float64 {
	if cars < 1 {
		cars = 1
	}
	return float64(cars)*carLength + float64(cars-1)*carGap
}

// TrainMesh builds the car boxes for the current frame. Each car is
// oriented by the track pose at its center.
func TrainMesh(trk *track.Track, front float64, cars int) []render.Triangle {
	var tris []render.Triangle
	for _, s := range train.CarPositions(front, cars, carLength, carGap) {
		if s < 0 {
			continue
		}
		pose := trk.PositionAt(s)
		right := pose.Forward.Cross(pose.Up)
		center := pose.Position.Add(pose.Up.Scale(carHeight/2 + railHeight))
		tris = append(tris, box(center, pose.Forward, right, pose.Up,
			carLength/2, carWidth/2, carHeight/2, trainColor, render.LayerTrain)...)
	}
	return tris
}
