//go:build !linux

package touch

import (
	"errors"
	"os"
)

func grab(*os.File, bool) error {
	return errors.New("input grab is only supported on linux")
}
