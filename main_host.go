//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"grapher/app"
	"grapher/hal"
	"grapher/internal/buildinfo"
	"grapher/internal/logging"
)

// exprList collects repeated -expr flags.
type exprList []string

func (l *exprList) String() string { return strings.Join(*l, ", ") }

func (l *exprList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func main() {
	var (
		headless hal.HeadlessConfig
		window   hal.WindowConfig
		exprs    exprList
		noSeed   bool
		logLevel string
		version  bool
	)
	cfg := app.DefaultConfig()

	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.IntVar(&window.Width, "width", hal.DefaultWidth, "Framebuffer width in pixels.")
	flag.IntVar(&window.Height, "height", hal.DefaultHeight, "Framebuffer height in pixels.")
	flag.IntVar(&window.Scale, "scale", 1, "Window pixels per framebuffer pixel.")
	flag.Float64Var(&cfg.Widget.Scale, "zoom", cfg.Widget.Scale, "Initial zoom in pixels per unit.")
	flag.Float64Var(&cfg.Widget.MinScale, "min-zoom", cfg.Widget.MinScale, "Smallest zoom in pixels per unit.")
	flag.Float64Var(&cfg.Widget.ZoomStep, "zoom-step", cfg.Widget.ZoomStep, "Zoom change per key press, click or wheel notch.")
	flag.Float64Var(&cfg.Widget.PanStep, "pan-step", cfg.Widget.PanStep, "Pan distance in pixels per arrow key press.")
	flag.Var(&exprs, "expr", "Expression to plot on startup (repeatable; default Math.sin(x)).")
	flag.BoolVar(&noSeed, "empty", false, "Start without any expression.")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error.")
	flag.BoolVar(&version, "version", false, "Print the build and exit.")
	flag.Parse()

	if version {
		fmt.Println("grapher", buildinfo.Long())
		return
	}

	lvl, err := logging.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.LogLevel = lvl

	switch {
	case noSeed:
		cfg.Expressions = []string{}
	case len(exprs) > 0:
		cfg.Expressions = exprs
	}

	newApp := func(h hal.HAL) func() error { return app.New(h, cfg) }

	if headless.Enabled {
		headless.Width, headless.Height = window.Width, window.Height
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, headless); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, window); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
