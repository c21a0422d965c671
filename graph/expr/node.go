package expr

import "math"

// Var is the name of the free variable.
const Var = "x"

type node interface {
	eval(x float64) float64
}

type nodeNumber struct{ v float64 }

type nodeVar struct{}

type nodeNeg struct{ x node }

type nodeBinary struct {
	op          byte
	left, right node
}

type nodeCall struct {
	name string
	fn   func(args []float64) float64
	args []node
}

func (n nodeNumber) eval(float64) float64 { return n.v }

func (nodeVar) eval(x float64) float64 { return x }

func (n nodeNeg) eval(x float64) float64 { return -n.x.eval(x) }

func (n nodeBinary) eval(x float64) float64 {
	a := n.left.eval(x)
	b := n.right.eval(x)
	switch n.op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		return a / b
	case '%':
		return math.Mod(a, b)
	case '^':
		return math.Pow(a, b)
	default:
		return math.NaN()
	}
}

func (n nodeCall) eval(x float64) float64 {
	var buf [4]float64
	args := buf[:0]
	for _, a := range n.args {
		args = append(args, a.eval(x))
	}
	return n.fn(args)
}
