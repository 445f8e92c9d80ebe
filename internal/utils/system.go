package utils

import (
	"os"
)

// IsTerminal reports whether f is attached to a character device.
// Colored log output is switched off when stdout is piped or redirected.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
