// Package export renders frames and run traces to standalone SVG
// documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/railsim/internal/render"
	"github.com/san-kum/railsim/internal/sim"
)

// svgSurface collects the rasterizer's polygons as SVG elements.
type svgSurface struct {
	w, h int
	body strings.Builder
}

func (s *svgSurface) Size() (int, int) { return s.w, s.h }

func (s *svgSurface) FillPolygon(pts [][2]float64, c render.Color) {
	if len(pts) < 3 {
		return
	}
	s.body.WriteString(fmt.Sprintf("<polygon points=%q fill=%q/>\n", pointList(pts), hex(c)))
}

func (s *svgSurface) StrokePolygon(pts [][2]float64, c render.Color) {
	if len(pts) < 2 {
		return
	}
	s.body.WriteString(fmt.Sprintf("<polygon points=%q fill=\"none\" stroke=%q stroke-width=\"1\"/>\n",
		pointList(pts), hex(c)))
}

func pointList(pts [][2]float64) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p[0], p[1])
	}
	return strings.Join(parts, " ")
}

func hex(c render.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

const skyFill = "#96bee6"

// FrameSVG renders the simulator's current frame as an SVG document.
// The simulation state is not advanced.
func FrameSVG(s *sim.Simulator, width, height int) string {
	sf := &svgSurface{w: width, h: height}
	s.Camera().Aspect = float64(width) / float64(height)
	s.Frame(sim.Input{Pause: true}, 0, sf)

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill=%q/>
`, width, height, width, height, skyFill))
	b.WriteString(sf.body.String())
	b.WriteString("</svg>\n")
	return b.String()
}

// SpeedProfileSVG plots speed and the active limit against position
// for a recorded run.
func SpeedProfileSVG(states []sim.State, width, height int) string {
	if len(states) < 2 {
		return ""
	}

	maxS, maxV := 0.0, 0.0
	for _, st := range states {
		if st.S > maxS {
			maxS = st.S
		}
		if st.V > maxV {
			maxV = st.V
		}
		if st.Limit > maxV {
			maxV = st.Limit
		}
	}
	if maxS == 0 {
		maxS = 1
	}
	if maxV == 0 {
		maxV = 1
	}
	maxV *= 1.1

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	b.WriteString(path(states, width, height, maxS, maxV, "#888888", func(st sim.State) float64 { return st.Limit }))
	b.WriteString(path(states, width, height, maxS, maxV, "#00cc66", func(st sim.State) float64 { return st.V }))
	b.WriteString("</svg>\n")
	return b.String()
}

func path(states []sim.State, width, height int, maxS, maxV float64, stroke string, y func(sim.State) float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<path fill="none" stroke=%q stroke-width="1.5" d="M`, stroke))
	for i, st := range states {
		px := st.S / maxS * float64(width)
		py := float64(height) - y(st)/maxV*float64(height)
		if i == 0 {
			b.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
		} else {
			b.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
		}
	}
	b.WriteString("\"/>\n")
	return b.String()
}
