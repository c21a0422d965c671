//go:build tinygo && baremetal && picocalc

package main

import (
	"time"

	"grapher/app"
	"grapher/hal"
)

func main() {
	h := hal.New()
	hal.RunTicker(h, app.New(h, app.DefaultConfig()), time.Second/30)
}
