//go:build tinygo && baremetal && picocalc

package hal

import (
	"machine"
	"time"
)

// PicoCalc panel size in pixels.
const (
	picoCalcWidth  = 320
	picoCalcHeight = 320
)

type picoCalcHAL struct {
	logger *uartLogger
	fb     *picoCalcFramebuffer
	kbd    Keyboard
}

// New returns the PicoCalc HAL (Pico/Pico2 on the PicoCalc carrier): the ILI9488 panel as a
// fixed-size framebuffer, the I2C keyboard and a UART logger. There is no pointer.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	fb := newPicoCalcFramebuffer(picoCalcWidth, picoCalcHeight)
	if lcd, err := initILI9488(); err == nil {
		fb.lcd = lcd
	} else {
		logger.WriteLineString("display: " + err.Error())
	}

	h := &picoCalcHAL{logger: logger, fb: fb}
	if kb, err := newPicoCalcKeyboard(); err == nil {
		h.kbd = kb
	} else {
		logger.WriteLineString(err.Error())
	}
	return h
}

func (h *picoCalcHAL) Logger() Logger   { return h.logger }
func (h *picoCalcHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *picoCalcHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }

// RunTicker calls step every period and never returns. A step error is logged and the loop
// stops calling step; the last frame stays on the panel.
func RunTicker(h HAL, step func() error, period time.Duration) {
	for {
		start := time.Now()
		if step != nil {
			if err := step(); err != nil {
				if l := h.Logger(); l != nil {
					l.WriteLineString("step: " + err.Error())
				}
				step = nil
			}
		}
		if d := period - time.Since(start); d > 0 {
			time.Sleep(d)
		}
	}
}

type picoCalcKeyboard struct {
	ch chan KeyEvent
}

func (k *picoCalcKeyboard) Events() <-chan KeyEvent { return k.ch }

func newPicoCalcKeyboard() (*picoCalcKeyboard, error) {
	dev := &picoCalcKeyboard{ch: make(chan KeyEvent, 64)}
	kbd, err := initI2CKeyboard()
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			if ev, ok := kbd.readEvent(); ok {
				select {
				case dev.ch <- ev:
				default:
				}
			}
			time.Sleep(2 * time.Millisecond)
		}
	}()
	return dev, nil
}
