package main

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"grapher/graph/equation"
)

func TestRender_WritesPNG(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var buf bytes.Buffer
	err := render(&buf, options{
		width:  120,
		height: 90,
		scale:  20,
		exprs:  []string{"Math.sin(x)", "1/x", "nope("},
		legend: true,
	}, zap.New(core))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 90 {
		t.Fatalf("bounds=%v", b)
	}

	entries := logs.FilterMessage("rendered").All()
	if len(entries) != 1 {
		t.Fatalf("rendered logged %d times", len(entries))
	}
	if got := entries[0].ContextMap()["equations"]; got != int64(3) {
		t.Fatalf("equations=%v want 3", got)
	}
	if logs.FilterMessage("expression rejected").Len() != 1 {
		t.Fatalf("invalid expression not logged")
	}
}

func TestRender_BlankExpression(t *testing.T) {
	var buf bytes.Buffer
	err := render(&buf, options{width: 10, height: 10, exprs: []string{" "}}, zap.NewNop())
	if !errors.Is(err, equation.ErrEmptyExpression) {
		t.Fatalf("err=%v want ErrEmptyExpression", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %d bytes on error", buf.Len())
	}
}
