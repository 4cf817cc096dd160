// Package viz draws running worlds in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one world with wireframe bodies and stats
//   - [NewInteractiveApp]: preset picker in front of the live view
//   - [Canvas]: Braille-based dot canvas, two by four dots per cell
//
// Bodies are projected through the render package's camera, so the
// terminal view and a GL renderer agree on what the scene looks like.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the world from its configuration
//	+/-   - Grow/shrink the timestep
//	Arrows- Orbit the camera
//	Z/X   - Zoom
//	[]    - Time travel (rewind/forward)
//	P     - Save the current frame as SVG
//	?     - Show help overlay
package viz
