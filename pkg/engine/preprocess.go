package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys accepts:
//
//   - :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user variables of the same name. := is left alone.
//   - ; and ;; line comments become // comments.
//   - kebab-case identifiers become snake_case, since zygomys reads a
//     hyphen as subtraction.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocessSource(source string) string {
	p := &preprocessor{src: source}
	p.out.Grow(len(source) + len(source)/4)
	for p.pos < len(p.src) {
		p.step()
	}
	return p.out.String()
}

type preprocessor struct {
	src string
	pos int
	out strings.Builder
}

func (p *preprocessor) peek(off int) byte {
	if p.pos+off < len(p.src) {
		return p.src[p.pos+off]
	}
	return 0
}

func (p *preprocessor) emit(n int) {
	p.out.WriteString(p.src[p.pos : p.pos+n])
	p.pos += n
}

func (p *preprocessor) step() {
	c := p.src[p.pos]
	switch {
	case c == '"':
		p.quoted('"', true)
	case c == '`':
		p.quoted('`', false)
	case c == ';':
		p.comment()
	case c == ':' && p.peek(1) == '=':
		p.emit(2)
	case c == ':' && isLetter(p.peek(1)):
		p.keyword()
	case c == '-' && p.pos > 0 && isIdentChar(p.src[p.pos-1]) && isLetter(p.peek(1)):
		p.out.WriteByte('_')
		p.pos++
	default:
		p.emit(1)
	}
}

// quoted copies a string literal through its closing delimiter.
func (p *preprocessor) quoted(delim byte, escapes bool) {
	p.emit(1)
	for p.pos < len(p.src) && p.src[p.pos] != delim {
		if escapes && p.src[p.pos] == '\\' && p.pos+1 < len(p.src) {
			p.emit(2)
			continue
		}
		p.emit(1)
	}
	if p.pos < len(p.src) {
		p.emit(1)
	}
}

func (p *preprocessor) comment() {
	p.out.WriteString("//")
	for p.pos < len(p.src) && p.src[p.pos] == ';' {
		p.pos++
	}
	end := strings.IndexByte(p.src[p.pos:], '\n')
	if end < 0 {
		end = len(p.src) - p.pos
	}
	p.emit(end)
}

func (p *preprocessor) keyword() {
	start := p.pos + 1
	end := start
	for end < len(p.src) && isKWChar(p.src[end]) {
		end++
	}
	p.out.WriteByte('"')
	p.out.WriteString(kwPrefix)
	p.out.WriteString(p.src[start:end])
	p.out.WriteByte('"')
	p.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isKWChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
