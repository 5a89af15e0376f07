package eink

import (
	"image"
	"image/color"
	"sync"
)

// MockBlit records one Blit call.
type MockBlit struct {
	Rect     Rect
	Inverted bool
}

// MockRefresh records one Refresh call.
type MockRefresh struct {
	Inverted bool
	Flashing bool
}

// MockDevice is an in-memory Device for tests. It keeps the frame that a
// real panel would show and records every call.
type MockDevice struct {
	mu        sync.Mutex
	width     int
	height    int
	frame     *image.Gray
	blits     []MockBlit
	refreshes []MockRefresh
	clears    int
}

// Ensure MockDevice implements Device.
var _ Device = (*MockDevice)(nil)

// NewMockDevice creates a white width x height frame.
func NewMockDevice(width, height int) *MockDevice {
	return &MockDevice{
		width:  width,
		height: height,
		frame:  newBitmap(width, height, color.Gray{Y: 255}),
	}
}

// Size returns the frame dimensions.
func (m *MockDevice) Size() (width, height int) {
	return m.width, m.height
}

// Blit pastes img into the frame and records the call.
func (m *MockDevice) Blit(img *image.Gray, x, y int, inverted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	paste(m.frame, img, x, y, inverted)
	b := img.Bounds()
	m.blits = append(m.blits, MockBlit{Rect: NewRect(x, y, b.Dx(), b.Dy()), Inverted: inverted})
	return nil
}

// Refresh records the call.
func (m *MockDevice) Refresh(inverted, flashing bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes = append(m.refreshes, MockRefresh{Inverted: inverted, Flashing: flashing})
	return nil
}

// Clear blanks the frame and counts the call.
func (m *MockDevice) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = newBitmap(m.width, m.height, color.Gray{Y: 255})
	m.clears++
	return nil
}

// Frame returns a copy of the current frame.
func (m *MockDevice) Frame() *image.Gray {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := image.NewGray(m.frame.Bounds())
	copy(out.Pix, m.frame.Pix)
	return out
}

// Blits returns the recorded blits.
func (m *MockDevice) Blits() []MockBlit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockBlit(nil), m.blits...)
}

// Refreshes returns the recorded refreshes.
func (m *MockDevice) Refreshes() []MockRefresh {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockRefresh(nil), m.refreshes...)
}

// Clears returns the number of Clear calls.
func (m *MockDevice) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// Reset forgets the recorded calls but keeps the frame.
func (m *MockDevice) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blits = nil
	m.refreshes = nil
	m.clears = 0
}
