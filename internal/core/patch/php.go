// Package patch locates insertion points in existing PHP sources and applies
// idempotent edits to them. It never touches the filesystem.
package patch

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrAnchorNotFound is returned when the structure a patch needs is absent.
var ErrAnchorNotFound = errors.New("anchor not found")

// Class is the span of a class declaration inside a PHP source.
type Class struct {
	Name    string
	Start   int // offset of the line holding the "class" keyword
	Open    int // offset of the opening brace
	Close   int // offset of the closing brace
	Methods []Method
}

// Method is the span of a method with a body.
type Method struct {
	Name  string
	Open  int
	Close int
}

// Method returns the named method, or nil.
func (c *Class) Method(name string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

var (
	classDecl    = regexp.MustCompile(`\bclass\s+([A-Za-z_][A-Za-z0-9_]*)`)
	functionDecl = regexp.MustCompile(`\bfunction\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
)

// ParseClass finds the class with the given name, or the first class when
// name is empty. Comments and string literals are ignored.
func ParseClass(src, name string) (*Class, error) {
	code := Mask(src)

	for _, m := range classDecl.FindAllStringSubmatchIndex(code, -1) {
		found := code[m[2]:m[3]]
		if name != "" && found != name {
			continue
		}

		open := indexFrom(code, '{', m[1])
		if open < 0 {
			break
		}
		closing := matchBrace(code, open)
		if closing < 0 {
			return nil, fmt.Errorf("%w: class %s is not closed", ErrAnchorNotFound, found)
		}

		class := &Class{
			Name:  found,
			Start: lineStart(code, m[0]),
			Open:  open,
			Close: closing,
		}
		class.Methods = parseMethods(code, open, closing)
		return class, nil
	}

	if name == "" {
		return nil, fmt.Errorf("%w: no class declaration", ErrAnchorNotFound)
	}
	return nil, fmt.Errorf("%w: class %s", ErrAnchorNotFound, name)
}

func parseMethods(code string, open, closing int) []Method {
	var methods []Method
	body := code[:closing]

	for _, m := range functionDecl.FindAllStringSubmatchIndex(body, -1) {
		if m[0] < open || depthAt(code, open, m[0]) != 1 {
			continue
		}
		params := m[1] - 1
		paramsEnd := matchParen(code, params)
		if paramsEnd < 0 {
			continue
		}
		// Abstract and interface methods end in ";" before any brace.
		brace := indexFrom(code, '{', paramsEnd)
		semi := indexFrom(code, ';', paramsEnd)
		if brace < 0 || (semi >= 0 && semi < brace) {
			continue
		}
		end := matchBrace(code, brace)
		if end < 0 {
			continue
		}
		methods = append(methods, Method{Name: code[m[2]:m[3]], Open: brace, Close: end})
	}

	return methods
}

// Mask returns src with comments and string literal contents replaced by
// spaces, so offsets stay valid while braces inside them are ignored.
func Mask(src string) string {
	out := []byte(src)
	blank := func(from, to int) {
		for i := from; i < to && i < len(out); i++ {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
	}

	for i := 0; i < len(src); {
		switch {
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '/',
			src[i] == '#' && (i+1 >= len(src) || src[i+1] != '['):
			end := indexFrom(src, '\n', i)
			if end < 0 {
				end = len(src)
			}
			blank(i, end)
			i = end
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '*':
			end := indexOf(src, "*/", i+2)
			if end < 0 {
				end = len(src)
			} else {
				end += 2
			}
			blank(i, end)
			i = end
		case src[i] == '\'' || src[i] == '"' || src[i] == '`':
			end := stringEnd(src, i)
			blank(i+1, end)
			i = end + 1
		default:
			i++
		}
	}

	return string(out)
}

// stringEnd returns the offset of the quote closing the literal at start.
func stringEnd(src string, start int) int {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return len(src) - 1
}

func matchBrace(code string, open int) int {
	return matchPair(code, open, '{', '}')
}

func matchParen(code string, open int) int {
	return matchPair(code, open, '(', ')')
}

func matchPair(code string, open int, left, right byte) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case left:
			depth++
		case right:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// depthAt returns the brace depth at pos, counting from the class brace.
func depthAt(code string, open, pos int) int {
	depth := 0
	for i := open; i < pos; i++ {
		switch code[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}

func indexFrom(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func indexOf(s, sub string, from int) int {
	if from > len(s) {
		return -1
	}
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func lineStart(s string, pos int) int {
	for i := pos; i > 0; i-- {
		if s[i-1] == '\n' {
			return i
		}
	}
	return 0
}
