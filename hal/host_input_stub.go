//go:build !tinygo && !cgo

package hal

func (in *hostInput) poll() {
	// No keyboard support without the window backend.
}
