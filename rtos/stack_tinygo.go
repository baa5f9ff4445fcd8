//go:build tinygo

package rtos

func captureStack() []byte { return nil }

func panicSite() (string, int) { return "", 0 }
