package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// Width and Height may change between steps when the host window is resized; callers re-read
// them instead of caching Buffer.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
)

// KeyEvent is a keyboard event. Text input arrives with Code == KeyUnknown and a Rune.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerKind is the type of a pointer event.
type PointerKind uint8

const (
	PointerMove PointerKind = iota + 1
	PointerDown
	PointerUp
	PointerWheel
)

// PointerButton identifies a mouse button.
type PointerButton uint8

const (
	ButtonNone PointerButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// PointerEvent is a mouse event in framebuffer pixels.
type PointerEvent struct {
	Kind   PointerKind
	X, Y   int
	Button PointerButton
	// WheelY is the vertical scroll amount in notches; positive scrolls up.
	WheelY float64
}

// Pointer provides pointer events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// HAL provides the only contact point between the widget and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}
