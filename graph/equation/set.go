// Package equation holds the ordered set of plotted equations owned by the host UI.
package equation

import (
	"errors"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrEmptyExpression is returned by Add for blank input.
var ErrEmptyExpression = errors.New("empty expression")

// Equation is one plotted expression. Only Visible changes after creation.
type Equation struct {
	ID         string
	Expression string
	Color      color.RGBA
	Visible    bool
}

// DefaultPalette returns the curve colors assigned in insertion order.
func DefaultPalette() []color.RGBA {
	return []color.RGBA{
		{R: 0x42, G: 0x85, B: 0xf4, A: 0xff},
		{R: 0xea, G: 0x43, B: 0x35, A: 0xff},
		{R: 0xfb, G: 0xbc, B: 0x04, A: 0xff},
		{R: 0x34, G: 0xa8, B: 0x53, A: 0xff},
		{R: 0x9c, G: 0x27, B: 0xb0, A: 0xff},
		{R: 0xff, G: 0x6d, B: 0x00, A: 0xff},
	}
}

// Set is an ordered collection of equations. It is not safe for concurrent use;
// the UI loop owns it and hands snapshots to the renderer.
type Set struct {
	palette []color.RGBA
	eqs     []Equation
	seq     uint64
}

// NewSet returns an empty set cycling through palette. An empty palette
// selects DefaultPalette.
func NewSet(palette []color.RGBA) *Set {
	if len(palette) == 0 {
		palette = DefaultPalette()
	}
	return &Set{palette: slices.Clone(palette)}
}

// Add appends a visible equation. The color is picked by the number of
// equations present before the call.
func (s *Set) Add(expression string) (Equation, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return Equation{}, ErrEmptyExpression
	}

	s.seq++
	eq := Equation{
		ID:         "eq" + strconv.FormatUint(s.seq, 36),
		Expression: expression,
		Color:      s.palette[len(s.eqs)%len(s.palette)],
		Visible:    true,
	}
	s.eqs = append(s.eqs, eq)
	return eq, nil
}

// Toggle flips the visibility of id and reports whether it exists.
func (s *Set) Toggle(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.eqs[i].Visible = !s.eqs[i].Visible
	return true
}

// Remove deletes id and reports whether it existed.
func (s *Set) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.eqs = slices.Delete(s.eqs, i, i+1)
	return true
}

func (s *Set) Get(id string) (Equation, bool) {
	i := s.index(id)
	if i < 0 {
		return Equation{}, false
	}
	return s.eqs[i], true
}

// At returns the i-th equation in set order.
func (s *Set) At(i int) (Equation, bool) {
	if i < 0 || i >= len(s.eqs) {
		return Equation{}, false
	}
	return s.eqs[i], true
}

func (s *Set) Len() int { return len(s.eqs) }

// Snapshot returns a copy of the equations in set order.
func (s *Set) Snapshot() []Equation { return slices.Clone(s.eqs) }

// Palette returns a copy of the palette.
func (s *Set) Palette() []color.RGBA { return slices.Clone(s.palette) }

func (s *Set) index(id string) int {
	return slices.IndexFunc(s.eqs, func(eq Equation) bool { return eq.ID == id })
}
