package eink

import "image"

// Device is the display a Stack paints to. Backends that hold resources
// also implement io.Closer.
type Device interface {
	// Size returns the frame size in pixels.
	Size() (width, height int)
	// Blit copies img onto the frame with its top-left corner at (x, y).
	// inverted inverts the copied pixels only.
	Blit(img *image.Gray, x, y int, inverted bool) error
	// Refresh redraws the whole panel. inverted is the global inversion
	// state; flashing requests a full waveform that clears ghosting.
	Refresh(inverted, flashing bool) error
	// Clear blanks the frame to white.
	Clear() error
}
