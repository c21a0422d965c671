// Package expr compiles single-variable numeric expressions and evaluates them.
//
// Expressions use the familiar calculator spelling (`sin(x)^2 + 1/x`) and also accept the
// JavaScript Math spelling (`Math.sin(x) ** 2 + 1 / x`). Evaluation is a tree walk over a closed
// table of math functions; the only input is the free variable x.
package expr
