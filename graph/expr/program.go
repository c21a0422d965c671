package expr

import (
	"fmt"
	"math"
)

// Program is a compiled expression. It is immutable and safe for concurrent use.
type Program struct {
	src  string
	root node
}

// Compile parses src once so it can be evaluated at many points.
func Compile(src string) (*Program, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Program{src: src, root: root}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Program {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Program) Source() string { return p.src }

func (p *Program) String() string { return p.src }

// Eval evaluates the program with the free variable bound to x.
func (p *Program) Eval(x float64) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = 0
			err = fmt.Errorf("%w: %v", ErrEval, r)
		}
	}()

	v = p.root.eval(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s at x=%g", ErrNotFinite, p.src, x)
	}
	return v, nil
}

// At reports the value at x, or false when the program has no finite value there.
func (p *Program) At(x float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	v, err := p.Eval(x)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Evaluate compiles src and evaluates it at x. Any failure, whether syntax,
// unknown name, arity or a non-finite result, is reported as false.
func Evaluate(src string, x float64) (v float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = 0, false
		}
	}()

	p, err := Compile(src)
	if err != nil {
		return 0, false
	}
	return p.At(x)
}
