//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// repeatDelay and repeatEvery are in ticks (60 TPS).
	repeatDelay = 24
	repeatEvery = 3
)

var hostKeys = []struct {
	key    ebiten.Key
	code   KeyCode
	repeat bool
}{
	{ebiten.KeyArrowUp, KeyUp, true},
	{ebiten.KeyArrowDown, KeyDown, true},
	{ebiten.KeyArrowLeft, KeyLeft, true},
	{ebiten.KeyArrowRight, KeyRight, true},
	{ebiten.KeyEnter, KeyEnter, false},
	{ebiten.KeyNumpadEnter, KeyEnter, false},
	{ebiten.KeyEscape, KeyEscape, false},
	{ebiten.KeyBackspace, KeyBackspace, true},
	{ebiten.KeyTab, KeyTab, false},
	{ebiten.KeyDelete, KeyDelete, true},
	{ebiten.KeyHome, KeyHome, false},
	{ebiten.KeyEnd, KeyEnd, false},
	{ebiten.KeyF1, KeyF1, false},
	{ebiten.KeyF2, KeyF2, false},
	{ebiten.KeyF3, KeyF3, false},
}

// Ctrl chords arrive as ASCII control runes.
var hostCtrlKeys = []struct {
	key ebiten.Key
	r   rune
}{
	{ebiten.KeyA, 0x01},
	{ebiten.KeyE, 0x05},
	{ebiten.KeyU, 0x15},
	{ebiten.KeyW, 0x17},
}

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

func (k *hostKeyboard) poll() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl {
		for _, c := range hostCtrlKeys {
			if inpututil.IsKeyJustPressed(c.key) {
				k.emit(KeyEvent{Press: true, Rune: c.r})
			}
		}
	} else {
		for _, r := range ebiten.AppendInputChars(nil) {
			k.emit(KeyEvent{Press: true, Rune: r})
		}
	}

	for _, hk := range hostKeys {
		if pressedOrRepeated(hk.key, hk.repeat) {
			k.emit(KeyEvent{Code: hk.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(hk.key) {
			k.emit(KeyEvent{Code: hk.code, Press: false})
		}
	}
}

func pressedOrRepeated(key ebiten.Key, repeat bool) bool {
	if inpututil.IsKeyJustPressed(key) {
		return true
	}
	if !repeat {
		return false
	}
	d := inpututil.KeyPressDuration(key)
	return d >= repeatDelay && (d-repeatDelay)%repeatEvery == 0
}
