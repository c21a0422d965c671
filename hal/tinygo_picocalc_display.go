//go:build tinygo && baremetal && picocalc

package hal

import (
	"bytes"
	"errors"
	"machine"
	"time"
)

// picoCalcFramebuffer is an RGB565 little-endian buffer mirrored to the panel on Present.
// Only the band of rows that changed since the last Present is sent over SPI.
type picoCalcFramebuffer struct {
	w      int
	h      int
	stride int
	buf    []byte
	shadow []byte

	lcd *ili9488
}

func newPicoCalcFramebuffer(w, h int) *picoCalcFramebuffer {
	return &picoCalcFramebuffer{
		w:      w,
		h:      h,
		stride: w * 2,
		buf:    make([]byte, w*h*2),
	}
}

func (f *picoCalcFramebuffer) Width() int          { return f.w }
func (f *picoCalcFramebuffer) Height() int         { return f.h }
func (f *picoCalcFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *picoCalcFramebuffer) StrideBytes() int    { return f.stride }
func (f *picoCalcFramebuffer) Buffer() []byte      { return f.buf }

func (f *picoCalcFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *picoCalcFramebuffer) Present() error {
	if f.lcd == nil {
		return ErrNotImplemented
	}

	y0, y1 := 0, f.h
	if f.shadow == nil {
		f.shadow = make([]byte, len(f.buf))
	} else {
		y0, y1 = f.dirtyRows()
		if y0 >= y1 {
			return nil
		}
	}

	band := f.buf[y0*f.stride : y1*f.stride]
	if err := f.lcd.blitRows(band, f.w, y0, y1); err != nil {
		return err
	}
	copy(f.shadow[y0*f.stride:], band)
	return nil
}

// dirtyRows returns the half-open row range that differs from what the panel shows.
func (f *picoCalcFramebuffer) dirtyRows() (y0, y1 int) {
	row := func(y int) bool {
		off := y * f.stride
		return !bytes.Equal(f.buf[off:off+f.stride], f.shadow[off:off+f.stride])
	}
	y0 = 0
	for y0 < f.h && !row(y0) {
		y0++
	}
	y1 = f.h
	for y1 > y0 && !row(y1-1) {
		y1--
	}
	return y0, y1
}

type ili9488 struct {
	spi machine.SPI
	cs  machine.Pin
	dc  machine.Pin
	rst machine.Pin

	txBuf []byte
}

func initILI9488() (*ili9488, error) {
	if machine.SPI1 == nil {
		return nil, errors.New("SPI1 unavailable")
	}

	machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		SDI:       machine.GP12,
		Frequency: 40_000_000,
	})

	lcd := &ili9488{
		spi:   *machine.SPI1,
		cs:    machine.GP13,
		dc:    machine.GP14,
		rst:   machine.GP15,
		txBuf: make([]byte, 4096),
	}
	for _, p := range []machine.Pin{lcd.cs, lcd.dc, lcd.rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}

	lcd.reset()
	lcd.init()
	return lcd, nil
}

func (d *ili9488) reset() {
	d.rst.Low()
	time.Sleep(64 * time.Millisecond)
	d.rst.High()
	time.Sleep(140 * time.Millisecond)
}

func (d *ili9488) init() {
	d.cmd(0xC0, 0x17, 0x15)             // PWCTRL1
	d.cmd(0xC1, 0x41)                   // PWCTRL2
	d.cmd(0xC5, 0x00, 0x12, 0x80, 0x40) // VMCTRL
	d.cmd(0x3A, 0x55)                   // COLMOD: 16bpp
	d.cmd(0xB1, 0xA0, 0x11)             // FRMCTRL1
	d.cmd(0xB6, 0x02, 0x22, 0x27)       // DISCTRL: 320 lines
	d.cmd(0x21)                         // INVON
	d.cmd(0x36, 0x40|0x04|0x08)         // MADCTL: MX|MH|BGR for the PicoCalc wiring

	d.cmd(0x11) // SLPOUT
	time.Sleep(120 * time.Millisecond)
	d.cmd(0x29) // DISPON
}

func (d *ili9488) cmd(cmd byte, data ...byte) {
	d.cs.Low()
	d.dc.Low()
	d.spi.Tx([]byte{cmd}, nil)
	d.dc.High()
	if len(data) > 0 {
		d.spi.Tx(data, nil)
	}
	d.cs.High()
}

func (d *ili9488) setWindow(x0, y0, x1, y1 uint16) {
	d.cmd(0x2A, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1))
	d.cmd(0x2B, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1))
	d.cmd(0x2C)
}

// blitRows sends rows [y0, y1) of width w; band holds exactly those rows.
func (d *ili9488) blitRows(band []byte, w, y0, y1 int) error {
	n := w * (y1 - y0) * 2
	if w <= 0 || y1 <= y0 || len(band) < n {
		return errors.New("invalid framebuffer band")
	}

	d.setWindow(0, uint16(y0), uint16(w-1), uint16(y1-1))
	d.cs.Low()
	d.dc.High()
	defer d.cs.High()

	chunk := d.txBuf[:len(d.txBuf)&^1]
	for off := 0; off < n; {
		size := min(len(chunk), n-off)
		src := band[off : off+size]
		// The panel expects big-endian RGB565.
		for i := 0; i < size; i += 2 {
			chunk[i] = src[i+1]
			chunk[i+1] = src[i]
		}
		d.spi.Tx(chunk[:size], nil)
		off += size
	}
	return nil
}
