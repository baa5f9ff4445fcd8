//go:build !(tinygo && cortexm)

package cortexm

// CaptureSCB returns an empty block where there is no System Control Block.
func CaptureSCB() SCB { return SCB{} }
