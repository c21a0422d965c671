//go:build !tinygo && cgo

package hal

import (
	"image"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"grapher/internal/buildinfo"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Width  int
	Height int
	// Scale is the window pixels per framebuffer pixel.
	Scale int
	Title string
}

// RunWindow starts a resizable desktop window that displays the framebuffer and forwards
// keyboard and pointer input. The framebuffer follows the window size. It blocks until the
// window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Title == "" {
		cfg.Title = "Grapher (" + buildinfo.Short() + ")"
	}

	h := newHost(cfg.Width, cfg.Height, os.Stdout)
	step := newApp(h)

	g := &hostGame{h: h, step: step, scale: cfg.Scale}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
	scale   int
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	fb.mu.Lock()
	w, h := fb.width, fb.height
	fb.mu.Unlock()

	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.scratch = make([]byte, w*h*2)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	fb.snapshotRGB565(g.scratch)
	expandRGB565(g.img.Pix, g.scratch)

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout resizes the framebuffer to the window; the app notices the new size on its next step.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := outsideWidth / g.scale
	h := outsideHeight / g.scale
	g.h.fb.resize(w, h)
	return g.h.fb.width, g.h.fb.height
}
