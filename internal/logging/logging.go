// Package logging builds zap loggers that write into the HAL line logger.
package logging

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"grapher/hal"
)

// TimeLayout is the timestamp layout of every log line.
const TimeLayout = "15:04:05.000"

// New returns a console-encoded logger writing one line per entry to sink.
// A nil sink yields a no-op logger.
func New(sink hal.Logger, level zapcore.LevelEnabler, opts ...zap.Option) *zap.Logger {
	if sink == nil {
		return zap.NewNop()
	}
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(TimeLayout)
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	ec.ConsoleSeparator = " "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(ec),
		zapcore.AddSync(lineWriter{sink: sink}),
		level,
	)
	return zap.New(core, opts...)
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(s string) (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// lineWriter hands each encoded entry to the HAL logger without its trailing newline.
type lineWriter struct {
	sink hal.Logger
}

func (w lineWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		line := p
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			line, p = p[:i], p[i+1:]
		} else {
			p = nil
		}
		w.sink.WriteLineBytes(line)
	}
	return n, nil
}
