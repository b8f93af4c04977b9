package plagiarism

import (
	"strconv"
	"strings"
)

// reservedWords are keywords and common built-ins that pass through
// normalization unchanged. Everything else identifier-shaped is replaced
// by a positional placeholder.
var reservedWords = map[string]bool{
	// control flow
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "default": true, "break": true,
	"continue": true, "return": true, "goto": true,
	// types and literals
	"int": true, "long": true, "short": true, "float": true, "double": true,
	"char": true, "bool": true, "boolean": true, "void": true, "string": true,
	"String": true, "unsigned": true, "signed": true, "auto": true,
	"true": true, "false": true, "null": true, "nil": true, "NULL": true,
	"None": true, "True": true, "False": true,
	// declarations
	"const": true, "static": true, "struct": true, "class": true,
	"enum": true, "union": true, "typedef": true, "sizeof": true,
	"public": true, "private": true, "protected": true, "final": true,
	"var": true, "let": true, "new": true, "delete": true, "this": true,
	"function": true, "def": true, "func": true, "lambda": true,
	"import": true, "include": true, "from": true, "package": true,
	"namespace": true, "using": true, "extends": true, "implements": true,
	"interface": true, "abstract": true, "throws": true, "throw": true,
	"try": true, "catch": true, "finally": true, "in": true, "of": true,
	"and": true, "or": true, "not": true, "is": true, "elif": true,
	// ubiquitous built-ins
	"main": true, "print": true, "printf": true, "println": true,
	"scanf": true, "cin": true, "cout": true, "endl": true, "std": true,
	"len": true, "range": true, "append": true, "push": true, "pop": true,
	"size": true, "length": true, "console": true, "log": true,
	"Math": true, "System": true, "out": true, "self": true,
}

const (
	lineCommentMarker = "//"
	blockCommentOpen  = "/*"
	blockCommentClose = "*/"
)

// identifierTable assigns placeholder names to identifiers in first-seen
// order. It is scoped to one normalization pass over one document; the
// counter advances monotonically for the whole document, never per line.
type identifierTable struct {
	placeholders map[string]string
	next         int
}

func newIdentifierTable() *identifierTable {
	return &identifierTable{placeholders: make(map[string]string)}
}

func (t *identifierTable) placeholder(word string) string {
	if reservedWords[word] {
		return word
	}
	if p, ok := t.placeholders[word]; ok {
		return p
	}
	t.next++
	p := "VAR" + strconv.Itoa(t.next)
	t.placeholders[word] = p
	return p
}

// NormalizeSource reduces raw source text to its canonical line sequence:
// comments stripped, whitespace collapsed, blank lines dropped, and every
// non-reserved identifier replaced by a placeholder assigned in encounter
// order. The returned indices are normalized-line indices; they do not map
// 1:1 back to raw line numbers because comment-only and blank lines are
// omitted.
func NormalizeSource(src string) []string {
	table := newIdentifierTable()
	inComment := false

	normalized := make([]string, 0)
	for _, raw := range strings.Split(src, "\n") {
		line, ok := stripComments(raw, &inComment)
		if !ok {
			continue
		}
		line = collapseWhitespace(line)
		if line == "" {
			continue
		}
		normalized = append(normalized, canonicalizeIdentifiers(line, table))
	}
	return normalized
}

// stripComments removes comment text from one raw line, carrying the
// open-block-comment state across lines. The second return value is false
// when the whole line should be skipped.
func stripComments(raw string, inComment *bool) (string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return "", false
	}

	// Still inside a block comment started on an earlier line.
	if *inComment {
		idx := strings.Index(line, blockCommentClose)
		if idx < 0 {
			return "", false
		}
		line = line[idx+len(blockCommentClose):]
		*inComment = false
	}

	// Trailing single-line comment.
	if idx := strings.Index(line, lineCommentMarker); idx >= 0 {
		line = line[:idx]
	}

	// Block comment spans contained on this line; an unterminated opener
	// truncates the line and flags the following lines as in-comment.
	for {
		start := strings.Index(line, blockCommentOpen)
		if start < 0 {
			break
		}
		rest := line[start+len(blockCommentOpen):]
		end := strings.Index(rest, blockCommentClose)
		if end < 0 {
			line = line[:start]
			*inComment = true
			break
		}
		line = line[:start] + rest[end+len(blockCommentClose):]
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	return line, true
}

func collapseWhitespace(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// canonicalizeIdentifiers replaces every maximal identifier-shaped token in
// the line with its table placeholder. Tokens starting with a digit are
// numeric literals and pass through untouched.
func canonicalizeIdentifiers(line string, table *identifierTable) string {
	var b strings.Builder
	b.Grow(len(line))

	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case isIdentStart(c):
			j := i + 1
			for j < len(line) && isIdentPart(line[j]) {
				j++
			}
			b.WriteString(table.placeholder(line[i:j]))
			i = j
		case isDigit(c):
			j := i + 1
			for j < len(line) && isIdentPart(line[j]) {
				j++
			}
			b.WriteString(line[i:j])
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
