//go:build tinygo

package main

import (
	"minipanel/app"
	"minipanel/hal"
)

func main() {
	app.Run(hal.New(), app.Config{})
}
