package expr

import (
	"strconv"
	"unicode"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIllegal
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokStarStar
	tokSlash
	tokPercent
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokDot
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

type lexer struct {
	s string
	i int
}

func (l *lexer) next() token {
	for l.i < len(l.s) && unicode.IsSpace(rune(l.s[l.i])) {
		l.i++
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF}
	}

	switch l.s[l.i] {
	case '+':
		l.i++
		return token{kind: tokPlus, text: "+"}
	case '-':
		l.i++
		return token{kind: tokMinus, text: "-"}
	case '*':
		l.i++
		if l.i < len(l.s) && l.s[l.i] == '*' {
			l.i++
			return token{kind: tokStarStar, text: "**"}
		}
		return token{kind: tokStar, text: "*"}
	case '/':
		l.i++
		return token{kind: tokSlash, text: "/"}
	case '%':
		l.i++
		return token{kind: tokPercent, text: "%"}
	case '^':
		l.i++
		return token{kind: tokCaret, text: "^"}
	case '(', '[':
		l.i++
		return token{kind: tokLParen, text: "("}
	case ')', ']':
		l.i++
		return token{kind: tokRParen, text: ")"}
	case ',':
		l.i++
		return token{kind: tokComma, text: ","}
	}

	ch := rune(l.s[l.i])
	if isIdentStart(ch) {
		start := l.i
		l.i++
		for l.i < len(l.s) && isIdentContinue(rune(l.s[l.i])) {
			l.i++
		}
		return token{kind: tokIdent, text: l.s[start:l.i]}
	}
	if ch == '.' && (l.i+1 >= len(l.s) || !isDigit(l.s[l.i+1])) {
		l.i++
		return token{kind: tokDot, text: "."}
	}
	if ch == '.' || isDigit(l.s[l.i]) {
		start := l.i
		l.i = scanNumber(l.s, l.i)
		txt := l.s[start:l.i]
		f, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return token{kind: tokIllegal, text: txt}
		}
		return token{kind: tokNumber, text: txt, num: f}
	}

	start := l.i
	l.i++
	for l.i < len(l.s) && l.s[l.i] >= 0x80 && l.s[l.i] < 0xC0 {
		l.i++
	}
	return token{kind: tokIllegal, text: l.s[start:l.i]}
}

func scanNumber(s string, i int) int {
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	if i == start {
		return start + 1
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || (r < 0x80 && unicode.IsLetter(r))
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || (r < 0x80 && unicode.IsDigit(r))
}
