package render

// Surface is the 2D drawing target the rasterizer paints through. The
// GUI backs it with a raylib window, the TUI with a braille canvas.
// Coordinates are pixels, origin top-left, y down.
type Surface interface {
	Size() (w, h int)
	FillPolygon(pts [][2]float64, c Color)
	StrokePolygon(pts [][2]float64, c Color)
}
