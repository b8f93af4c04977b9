package plagiarism

import "strings"

// Class tokens emitted by the structural scan. Operand identity, call
// arguments and literal values are discarded; control-flow shape and the
// operator mix survive, which is what lets differently-named but
// structurally identical code collide to the same digest.
const (
	tokCond   = "#COND"
	tokLoop   = "#LOOP"
	tokSwitch = "#SWITCH"
	tokCall   = "#CALL"
	tokAssign = "#ASSIGN"
	tokArith  = "#OP"
	tokCmp    = "#CMP"
)

// Fingerprint rewrites a joined shingle window into its structure-only
// form. It is a single explicit left-to-right scan rather than a cascade of
// pattern rewrites, so overlapping tokens ("==" vs "=", "<=" vs "<") are
// classified exactly once.
func Fingerprint(window string) string {
	var b strings.Builder
	b.Grow(len(window))

	for i := 0; i < len(window); {
		c := window[i]
		switch {
		case isIdentStart(c):
			j := i + 1
			for j < len(window) && isIdentPart(window[j]) {
				j++
			}
			word := window[i:j]
			i = j

			switch word {
			case "if":
				b.WriteString(tokCond)
				i = skipParenGroup(window, i)
			case "for", "while":
				b.WriteString(tokLoop)
				i = skipParenGroup(window, i)
			case "switch":
				b.WriteString(tokSwitch)
				i = skipParenGroup(window, i)
			default:
				// Call syntax: identifier directly followed by an
				// argument list. The arguments are dropped.
				if k := peekParenGroup(window, i); k > i {
					b.WriteString(tokCall)
					i = k
				} else {
					b.WriteString(word)
				}
			}
		case c == '=':
			if i+1 < len(window) && window[i+1] == '=' {
				b.WriteString(tokCmp)
				i += 2
			} else {
				b.WriteString(tokAssign)
				i++
			}
		case c == '!':
			if i+1 < len(window) && window[i+1] == '=' {
				b.WriteString(tokCmp)
				i += 2
			} else {
				b.WriteByte(c)
				i++
			}
		case c == '<' || c == '>':
			if i+1 < len(window) && window[i+1] == '=' {
				i++
			}
			b.WriteString(tokCmp)
			i++
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '%':
			b.WriteString(tokArith)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// skipParenGroup advances past an optional parenthesized group starting at
// i, returning the index after the closing paren. If no group follows, i is
// returned unchanged. An unbalanced group runs to the end of the window.
func skipParenGroup(window string, i int) int {
	if k := peekParenGroup(window, i); k > i {
		return k
	}
	return i
}

// peekParenGroup returns the index just past a balanced parenthesized group
// that begins (after optional spaces) at i, or i when there is none.
func peekParenGroup(window string, i int) int {
	k := i
	for k < len(window) && window[k] == ' ' {
		k++
	}
	if k >= len(window) || window[k] != '(' {
		return i
	}
	depth := 0
	for ; k < len(window); k++ {
		switch window[k] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return k + 1
			}
		}
	}
	return len(window)
}
