package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"tinygo.org/x/tinyfont"

	"grapher/graph/surface"
	"grapher/hal"
)

var (
	panicBackground = color.RGBA{R: 0x5a, G: 0x10, B: 0x10, A: 0xff}
	panicForeground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// showPanic logs a recovered panic and replaces the frame with its message and stack. The
// widget is not used again afterwards.
func showPanic(fb hal.Framebuffer, log *zap.Logger, value any, stack []byte) {
	log.Error("panic", zap.String("panic", fmt.Sprint(value)), zap.ByteString("stack", stack))
	if fb == nil {
		return
	}

	d := surface.NewDisplay(fb)
	w, h := fb.Width(), fb.Height()
	_ = d.FillRectangle(0, 0, int16(min(w, 1<<15-1)), int16(min(h, 1<<15-1)), panicBackground)

	lines := []string{
		"Grapher panic:",
		fmt.Sprintf("panic: %v", value),
	}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	cols := max(1, (w-4)/surface.GlyphWidth)
	y := 2
	for _, line := range lines {
		for len(line) > 0 {
			if y+surface.LineHeight > h {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, surface.Font, 2, int16(y+surface.Ascent), chunk, panicForeground)
			y += surface.LineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

// takeRunes splits s after n runes.
func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
