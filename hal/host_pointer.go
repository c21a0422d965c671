//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var hostButtons = []struct {
	mb  ebiten.MouseButton
	btn PointerButton
}{
	{ebiten.MouseButtonLeft, ButtonLeft},
	{ebiten.MouseButtonRight, ButtonRight},
	{ebiten.MouseButtonMiddle, ButtonMiddle},
}

type hostPointer struct {
	ch      chan PointerEvent
	lastX   int
	lastY   int
	havePos bool
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}

// poll reports cursor motion, button edges and wheel notches since the last tick.
// Coordinates are already in framebuffer pixels because Layout matches the framebuffer.
func (p *hostPointer) poll() {
	x, y := ebiten.CursorPosition()
	if !p.havePos || x != p.lastX || y != p.lastY {
		p.emit(PointerEvent{Kind: PointerMove, X: x, Y: y})
		p.lastX, p.lastY, p.havePos = x, y, true
	}

	for _, b := range hostButtons {
		if inpututil.IsMouseButtonJustPressed(b.mb) {
			p.emit(PointerEvent{Kind: PointerDown, X: x, Y: y, Button: b.btn})
		}
		if inpututil.IsMouseButtonJustReleased(b.mb) {
			p.emit(PointerEvent{Kind: PointerUp, X: x, Y: y, Button: b.btn})
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		p.emit(PointerEvent{Kind: PointerWheel, X: x, Y: y, WheelY: wy})
	}
}
