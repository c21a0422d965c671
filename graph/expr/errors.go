package expr

import "errors"

var (
	ErrParse = errors.New("parse error")
	ErrEval  = errors.New("eval error")
	// ErrUnknownIdent is returned when an expression names a variable or function outside the library.
	ErrUnknownIdent = errors.New("unknown identifier")
	// ErrNotFinite is returned when an evaluation produces NaN or an infinity.
	ErrNotFinite = errors.New("non-finite result")
)
