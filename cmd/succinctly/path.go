package main

import (
	"fmt"
	"strconv"
	"strings"

	sjson "github.com/rust-works/succinctly/json"
)

// step is one navigation move in a dot/bracket path.
type step struct {
	field string
	index int
	isIdx bool
}

func (s step) apply(c sjson.Cursor) (sjson.Cursor, bool) {
	if s.isIdx {
		return c.Index(s.index)
	}
	return c.Field(s.field)
}

// parsePath parses paths of the form ".a.b[2].c" or "." (root).
func parsePath(p string) ([]step, error) {
	if p == "" || p == "." {
		return nil, nil
	}
	if !strings.HasPrefix(p, ".") && !strings.HasPrefix(p, "[") {
		return nil, fmt.Errorf("path must start with '.' or '[': %q", p)
	}
	var steps []step
	i := 0
	for i < len(p) {
		switch p[i] {
		case '.':
			i++
			j := i
			for j < len(p) && p[j] != '.' && p[j] != '[' {
				j++
			}
			if j == i {
				return nil, fmt.Errorf("empty field name at offset %d in %q", i, p)
			}
			steps = append(steps, step{field: p[i:j]})
			i = j
		case '[':
			j := strings.IndexByte(p[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("unclosed '[' at offset %d in %q", i, p)
			}
			n, err := strconv.Atoi(p[i+1 : i+j])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("bad index at offset %d in %q", i, p)
			}
			steps = append(steps, step{index: n, isIdx: true})
			i += j + 1
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d in %q", p[i], i, p)
		}
	}
	return steps, nil
}
