//go:build !tinygo && unix

package hal

import (
	"os"
	"syscall"
)

// restartProcess re-executes the binary in place, which is what a
// hardware reset looks like from the firmware's point of view.
func restartProcess() {
	exe, err := os.Executable()
	if err == nil {
		err = syscall.Exec(exe, os.Args, os.Environ())
	}
	_ = err
	os.Exit(3)
}
