// Package viz provides the live terminal view of a running loop.
//
// The view is a Bubble Tea program that advances the driver a few periods
// per frame and shows the angle, the active sector, the switching instants,
// the compare values, a sector histogram and the alpha/beta locus.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single period while paused
//	R     - Reset angle, history and histogram
//	Up/K  - Raise the q command
//	Down/J - Lower the q command
//	+/-   - Faster or slower rotation
//	Q     - Quit
package viz
