package main

import (
	"context"
	"io"

	"github.com/grindlemire/go-eink"
	"github.com/grindlemire/go-eink/internal/config"
	"github.com/grindlemire/go-eink/pkg/device/fbdev"
	"github.com/grindlemire/go-eink/pkg/device/term"
	"github.com/grindlemire/go-eink/pkg/device/web"
	"github.com/grindlemire/go-eink/pkg/device/window"
	"github.com/grindlemire/go-eink/pkg/touch"
)

// backend bundles a device with the loop that keeps it alive.
type backend struct {
	dev eink.Device
	// touches is nil for devices without emulated input.
	touches touch.Source
	pump    func(ctx context.Context) error
	closer  io.Closer
}

func (b backend) close() {
	if b.closer != nil {
		b.closer.Close()
	}
}

func openBackend(cfg config.Config) (backend, error) {
	switch cfg.Device {
	case config.DeviceWindow:
		d := window.New(cfg.Width, cfg.Height, window.WithTitle("eink demo"))
		return backend{dev: d, touches: d.Touches(), pump: d.Run, closer: d}, nil
	case config.DeviceWeb:
		d := web.New(cfg.Width, cfg.Height)
		pump := func(ctx context.Context) error {
			return d.Serve(ctx, cfg.WebAddr)
		}
		return backend{dev: d, touches: d.Touches(), pump: pump, closer: d}, nil
	case config.DeviceFB:
		d, err := fbdev.Open(cfg.FBPath)
		if err != nil {
			return backend{}, err
		}
		return backend{dev: d, pump: wait, closer: d}, nil
	default:
		d, err := term.New(cfg.Width, cfg.Height)
		if err != nil {
			return backend{}, err
		}
		return backend{dev: d, touches: d.Touches(), pump: d.Run, closer: d}, nil
	}
}

func wait(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
