// Package viz is the terminal frontend: it drives the shared software
// renderer onto a Braille pixel canvas inside a Bubble Tea program.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [NewSurface]: adapts a Canvas to the renderer's surface interface
//   - [Model]: the live driving view
//
// # Key Bindings
//
//	Up/K    - Notch up (towards full power)
//	Down/J  - Notch down (towards full brake)
//	Space   - Pause/Resume
//	C       - Toggle cab / free camera
//	Arrows  - Look around (free camera)
//	Z       - Wireframe
//	?       - Help overlay
//	Q       - Quit
package viz
