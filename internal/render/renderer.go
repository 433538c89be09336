package render

import (
	"sort"

	"github.com/san-kum/railsim/internal/geom"
)

// Depth layers, painted far to near. Within a layer the Key orders
// meshes coarsely (typically distance along the track) before the
// per-face depth tie-break.
const (
	LayerTrain   = 0
	LayerSignal  = 0
	LayerStation = 1
	LayerProp    = 2
	LayerRail    = 3
	LayerGround  = 4
)

// Triangle is one face handed to the rasterizer. Vertices are world
// space, wound clockwise when viewed from the front.
type Triangle struct {
	P     [3]geom.Vec3
	Color Color
	Layer int
	Key   float64
}

// Renderer rasterizes triangles through a Surface with the painter's
// algorithm. Intersecting geometry can sort wrong; there is no z-buffer.
type Renderer struct {
	// Wireframe strokes outlines instead of filling faces.
	Wireframe bool

	// Faults counts faces skipped this frame for being malformed.
	// Reset at the start of every Draw.
	Faults int
}

type paintedTri struct {
	pts   [3][2]float64
	color Color
	layer int
	key   float64
	minZ  float64
	cenZ  float64
}

// Draw renders one frame. Malformed faces are counted and skipped; the
// frame itself never fails.
func (r *Renderer) Draw(cam *Camera, tris []Triangle, sf Surface) {
	r.Faults = 0
	w, h := sf.Size()
	fw, fh := float64(w), float64(h)
	view := cam.ViewMatrix()

	painted := make([]paintedTri, 0, len(tris))
	for _, tri := range tris {
		var v [3]geom.Vec3
		valid := true
		for i, p := range tri.P {
			v[i] = view.Apply(p)
			if !v[i].IsValid() {
				valid = false
			}
		}
		if !valid {
			r.Faults++
			continue
		}

		// Clip a hair in front of the near plane so the new vertices
		// themselves survive projection.
		for _, sub := range clipNear(v, cam.Near*(1+1e-9)+1e-9) {
			var pts [3][2]float64
			minZ, sumZ := sub[0].Y, 0.0
			ok := true
			for i, p := range sub {
				x, y, depth, visible := cam.projectView(p)
				if !visible {
					ok = false
					break
				}
				pts[i] = [2]float64{(x + 1) / 2 * fw, (1 - y) / 2 * fh}
				if depth < minZ {
					minZ = depth
				}
				sumZ += depth
			}
			if !ok {
				r.Faults++
				continue
			}
			// Screen winding: front faces are clockwise in pixel space
			// (y down), giving negative signed area. Everything else,
			// including degenerate faces, is culled.
			if signedArea(pts) >= 0 {
				continue
			}
			painted = append(painted, paintedTri{
				pts:   pts,
				color: tri.Color,
				layer: tri.Layer,
				key:   tri.Key,
				minZ:  minZ,
				cenZ:  sumZ / 3,
			})
		}
	}

	// Back to front: deeper layers first, then deeper faces.
	sort.Slice(painted, func(i, j int) bool {
		a, b := painted[i], painted[j]
		if a.layer != b.layer {
			return a.layer > b.layer
		}
		if a.key != b.key {
			return a.key > b.key
		}
		if a.minZ != b.minZ {
			return a.minZ > b.minZ
		}
		return a.cenZ > b.cenZ
	})

	for _, p := range painted {
		poly := clipWindow(p.pts[:], fw, fh)
		if len(poly) < 3 {
			if len(poly) > 0 {
				r.Faults++
			}
			continue
		}
		if r.Wireframe {
			sf.StrokePolygon(poly, p.color)
		} else {
			sf.FillPolygon(poly, p.color)
		}
	}
}

func signedArea(p [3][2]float64) float64 {
	return (p[1][0]-p[0][0])*(p[2][1]-p[0][1]) - (p[2][0]-p[0][0])*(p[1][1]-p[0][1])
}

// clipNear splits a view-space triangle against the near plane,
// returning 0, 1 or 2 triangles entirely in front of it. Clipping
// walks the edges in order, so the winding survives; new vertices are
// linear interpolations along the crossing edges.
func clipNear(v [3]geom.Vec3, near float64) [][3]geom.Vec3 {
	var out []geom.Vec3
	prev := v[2]
	for _, cur := range v {
		pin, cin := prev.Y > near, cur.Y > near
		if cin != pin {
			t := (near - prev.Y) / (cur.Y - prev.Y)
			out = append(out, prev.Lerp(cur, t))
		}
		if cin {
			out = append(out, cur)
		}
		prev = cur
	}
	switch len(out) {
	case 3:
		return [][3]geom.Vec3{{out[0], out[1], out[2]}}
	case 4:
		return [][3]geom.Vec3{
			{out[0], out[1], out[2]},
			{out[0], out[2], out[3]},
		}
	}
	return nil
}

// clipWindow clips a polygon against the pixel rectangle [0,w]x[0,h]
// one edge at a time (Sutherland-Hodgman).
func clipWindow(poly [][2]float64, w, h float64) [][2]float64 {
	type edge struct {
		inside func(p [2]float64) bool
		cross  func(a, b [2]float64) [2]float64
	}
	lerp := func(a, b [2]float64, t float64) [2]float64 {
		return [2]float64{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
	}
	edges := []edge{
		{func(p [2]float64) bool { return p[0] >= 0 },
			func(a, b [2]float64) [2]float64 { return lerp(a, b, (0-a[0])/(b[0]-a[0])) }},
		{func(p [2]float64) bool { return p[0] <= w },
			func(a, b [2]float64) [2]float64 { return lerp(a, b, (w-a[0])/(b[0]-a[0])) }},
		{func(p [2]float64) bool { return p[1] >= 0 },
			func(a, b [2]float64) [2]float64 { return lerp(a, b, (0-a[1])/(b[1]-a[1])) }},
		{func(p [2]float64) bool { return p[1] <= h },
			func(a, b [2]float64) [2]float64 { return lerp(a, b, (h-a[1])/(b[1]-a[1])) }},
	}

	out := poly
	for _, e := range edges {
		if len(out) == 0 {
			return nil
		}
		in := out
		out = nil
		prev := in[len(in)-1]
		for _, cur := range in {
			if e.inside(cur) {
				if !e.inside(prev) {
					out = append(out, e.cross(prev, cur))
				}
				out = append(out, cur)
			} else if e.inside(prev) {
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
	}
	return out
}
