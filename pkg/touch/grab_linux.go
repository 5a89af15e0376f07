//go:build linux

package touch

import (
	"os"

	"golang.org/x/sys/unix"
)

// eviocgrab is _IOW('E', 0x90, int).
const eviocgrab = 0x40044590

func grab(f *os.File, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return unix.IoctlSetInt(int(f.Fd()), eviocgrab, v)
}
