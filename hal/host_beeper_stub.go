//go:build !tinygo && !cgo

package hal

func (b *hostBeeper) attachAudio() error { return nil }
