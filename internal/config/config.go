// Package config loads the settings of the eink binaries from the
// environment, after merging in optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/grindlemire/go-eink/pkg/touch"
)

// Device backends.
const (
	DeviceTerm   = "term"
	DeviceWindow = "window"
	DeviceWeb    = "web"
	DeviceFB     = "fbdev"
)

// Config holds every EINK_* setting.
type Config struct {
	Device string
	Width  int
	Height int

	TouchPath   string
	TouchFormat touch.Format
	TouchGrab   bool
	Debounce    time.Duration
	DeadZone    int

	WebAddr   string
	FBPath    string
	DebugPath string
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Device:      DeviceTerm,
		Width:       600,
		Height:      800,
		TouchFormat: touch.NativeFormat(),
		Debounce:    touch.DefaultDebounce,
		DeadZone:    touch.DefaultDeadZone,
		WebAddr:     ":8080",
		FBPath:      "/dev/fb0",
	}
}

// Load reads files into the environment, without overriding variables
// already set, then parses the EINK_* variables. With no files it tries
// ".env" and ignores it when missing.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", strings.Join(files, ", "), err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv parses the settings using lookup to read variables.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	p := parser{lookup: lookup}

	p.str("EINK_DEVICE", &c.Device)
	p.int("EINK_WIDTH", &c.Width)
	p.int("EINK_HEIGHT", &c.Height)
	p.str("EINK_TOUCH_PATH", &c.TouchPath)
	if v, ok := p.get("EINK_TOUCH_FORMAT"); ok {
		f, err := touch.ParseFormat(v)
		if err != nil {
			p.fail("EINK_TOUCH_FORMAT", err)
		}
		c.TouchFormat = f
	}
	p.bool("EINK_TOUCH_GRAB", &c.TouchGrab)
	p.duration("EINK_DEBOUNCE", &c.Debounce)
	p.int("EINK_DEAD_ZONE", &c.DeadZone)
	p.str("EINK_WEB_ADDR", &c.WebAddr)
	p.str("EINK_FB_PATH", &c.FBPath)
	p.str("EINK_DEBUG", &c.DebugPath)

	if p.err != nil {
		return Config{}, p.err
	}
	return c, c.Validate()
}

// Validate checks values that parse but make no sense.
func (c Config) Validate() error {
	switch c.Device {
	case DeviceTerm, DeviceWindow, DeviceWeb, DeviceFB:
	default:
		return fmt.Errorf("EINK_DEVICE: unknown device %q", c.Device)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("EINK_WIDTH/EINK_HEIGHT: size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("EINK_DEBOUNCE: %v must not be negative", c.Debounce)
	}
	if c.DeadZone < 0 {
		return fmt.Errorf("EINK_DEAD_ZONE: %d must not be negative", c.DeadZone)
	}
	return nil
}

// parser keeps the first error so the variables can be read in sequence.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %w", key, err)
	}
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) int(key string, dst *int) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return
	}
	*dst = n
}

func (p *parser) bool(key string, dst *bool) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return
	}
	*dst = b
}

func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return
	}
	*dst = d
}
