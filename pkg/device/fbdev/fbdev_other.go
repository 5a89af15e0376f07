//go:build !linux

package fbdev

import "errors"

// Open is only supported on linux.
func Open(string) (*Device, error) {
	return nil, errors.New("framebuffer devices are only supported on linux")
}
