//go:build linux

package fbdev

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// fbVarScreenInfo mirrors struct fb_var_screeninfo.
type fbVarScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp fbBitfield
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	Timing                   [9]uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// fbFixScreenInfo mirrors struct fb_fix_screeninfo.
type fbFixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MMIOStart    uintptr
	MMIOLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

// Open maps the framebuffer at path.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer: %w", err)
	}
	// The mapping outlives the descriptor.
	defer f.Close()

	var vinfo fbVarScreenInfo
	if err := ioctl(f.Fd(), fbioGetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		return nil, fmt.Errorf("FBIOGET_VSCREENINFO: %w", err)
	}
	var finfo fbFixScreenInfo
	if err := ioctl(f.Fd(), fbioGetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		return nil, fmt.Errorf("FBIOGET_FSCREENINFO: %w", err)
	}

	l := Layout{
		Width:        int(vinfo.XRes),
		Height:       int(vinfo.YRes),
		BitsPerPixel: int(vinfo.BitsPerPixel),
		Stride:       int(finfo.LineLength),
		Red:          Bitfield{Offset: vinfo.Red.Offset, Length: vinfo.Red.Length},
		Green:        Bitfield{Offset: vinfo.Green.Offset, Length: vinfo.Green.Length},
		Blue:         Bitfield{Offset: vinfo.Blue.Offset, Length: vinfo.Blue.Length},
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	size := int(finfo.SmemLen)
	if need := l.Stride * l.Height; size < need {
		size = need
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap framebuffer: %w", err)
	}

	d, err := NewDevice(mem, l)
	if err != nil {
		unix.Munmap(mem)
		return nil, err
	}
	d.unmap = func() error { return unix.Munmap(mem) }
	d.log.WithField("layout", fmt.Sprintf("%dx%d@%dbpp", l.Width, l.Height, l.BitsPerPixel)).Info("framebuffer mapped")
	return d, nil
}
