// Package app wires the grapher widget to a HAL: logging, seed expressions and the per-tick
// input pump.
package app

import (
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"grapher/graph/widget"
	"grapher/hal"
	"grapher/internal/buildinfo"
	"grapher/internal/logging"
)

// DefaultExpression is plotted on startup when no expressions are configured.
const DefaultExpression = "Math.sin(x)"

// maxEventsPerStep bounds the work done in one tick so a burst of input cannot stall a frame.
const maxEventsPerStep = 64

type Config struct {
	Widget widget.Config
	// Expressions are added in order before the first frame. Nil selects DefaultExpression;
	// an empty non-nil slice starts with no equations.
	Expressions []string
	LogLevel    zapcore.Level
}

func DefaultConfig() Config {
	return Config{
		Widget:   widget.DefaultConfig(),
		LogLevel: zapcore.InfoLevel,
	}
}

type grapher struct {
	log *zap.Logger
	fb  hal.Framebuffer
	w   *widget.Widget
	kbd <-chan hal.KeyEvent
	ptr <-chan hal.PointerEvent

	failed bool
}

// New builds the grapher on h, draws the first frame and returns the step function the host
// calls once per tick.
func New(h hal.HAL, cfg Config) func() error {
	log := logging.New(h.Logger(), cfg.LogLevel).Named("grapher")

	g := &grapher{log: log}
	if d := h.Display(); d != nil {
		g.fb = d.Framebuffer()
	}
	if in := h.Input(); in != nil {
		if k := in.Keyboard(); k != nil {
			g.kbd = k.Events()
		}
		if p := in.Pointer(); p != nil {
			g.ptr = p.Events()
		}
	}
	if g.fb == nil {
		log.Warn("no framebuffer; running without display")
		return func() error { return nil }
	}

	log.Info("starting",
		zap.String("build", buildinfo.Short()),
		zap.Int("width", g.fb.Width()),
		zap.Int("height", g.fb.Height()),
	)

	g.w = widget.New(g.fb, cfg.Widget, log)
	exprs := cfg.Expressions
	if exprs == nil {
		exprs = []string{DefaultExpression}
	}
	for _, src := range exprs {
		_, _ = g.w.Add(src)
	}
	if len(exprs) == 0 {
		g.w.Render()
	}
	return g.step
}

func (g *grapher) step() error {
	if g.failed {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			g.failed = true
			showPanic(g.fb, g.log, r, debug.Stack())
		}
	}()

	if g.w.SizeChanged() {
		g.w.Resize()
	}

	for i := 0; i < maxEventsPerStep; i++ {
		select {
		case ev := <-g.kbd:
			g.w.HandleKey(ev)
			continue
		default:
		}
		break
	}
	for i := 0; i < maxEventsPerStep; i++ {
		select {
		case ev := <-g.ptr:
			g.w.HandlePointer(ev)
			continue
		default:
		}
		break
	}
	return nil
}
