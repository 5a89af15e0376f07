// Package main runs a small demo UI on any of the display backends.
//
// Usage:
//
//	eink-demo [-env file] [-device term|window|web|fbdev]
//
// Settings come from EINK_* environment variables, optionally loaded
// from .env files; flags override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/go-eink"
	"github.com/grindlemire/go-eink/internal/config"
	"github.com/grindlemire/go-eink/internal/debug"
	"github.com/grindlemire/go-eink/pkg/touch"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("eink-demo", flag.ExitOnError)
	envFiles := fs.String("env", "", "Comma separated .env files to load")
	device := fs.String("device", "", "Display backend: term, window, web or fbdev")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var files []string
	if *envFiles != "" {
		files = strings.Split(*envFiles, ",")
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	if *device != "" {
		cfg.Device = *device
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.DebugPath != "" {
		if err := debug.Init(cfg.DebugPath); err != nil {
			return err
		}
		defer debug.Close()
	}
	log := debug.With("demo")

	b, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Device, err)
	}
	defer b.close()

	stack, err := eink.NewStack(b.dev)
	if err != nil {
		return err
	}
	if err := buildDemo(stack); err != nil {
		return err
	}

	src, closeTouch, err := touchSource(cfg, b)
	if err != nil {
		return err
	}
	defer closeTouch()
	if src != nil {
		stack.WatchTouches(src)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		err := stack.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	log.WithField("device", cfg.Device).Info("demo running")
	// Some backends must own the main goroutine.
	pumpErr := b.pump(gctx)
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	return pumpErr
}

// touchSource prefers a real evdev node and falls back to the backend's
// emulated clicks.
func touchSource(cfg config.Config, b backend) (touch.Source, func(), error) {
	if cfg.TouchPath == "" {
		return b.touches, func() {}, nil
	}
	opts := []touch.Option{
		touch.WithFormat(cfg.TouchFormat),
		touch.WithDebounce(cfg.Debounce, cfg.DeadZone),
	}
	if cfg.TouchGrab {
		opts = append(opts, touch.WithGrab())
	}
	width, _ := b.dev.Size()
	l, err := touch.Open(cfg.TouchPath, width, opts...)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { l.Close() }, nil
}
