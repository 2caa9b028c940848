package json

// Kind is a JSON node kind, decided by the first source byte of the
// node.
type Kind uint8

const (
	Invalid Kind = iota
	Object
	Array
	String
	Number
	True
	False
	Null
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Number:
		return "number"
	case True:
		return "true"
	case False:
		return "false"
	case Null:
		return "null"
	default:
		return "invalid"
	}
}

// Cursor is a lightweight read-only navigator: a reference to an index
// and its source plus a current BP open position. Cursors are values;
// copying one is free and no operation mutates shared state.
type Cursor struct {
	src []byte
	idx *Index
	pos int
}

// Root returns a cursor at the document root. ok is false for an empty
// document (no nodes).
func Root(idx *Index, src []byte) (Cursor, bool) {
	if idx == nil || idx.NumNodes() == 0 {
		return Cursor{}, false
	}
	pos := 0
	if !idx.bp.IsOpen(0) {
		// Malformed input can emit stray closes before the first
		// node; start at the first open instead.
		p, ok := idx.bp.Bits().Select1(0)
		if !ok {
			return Cursor{}, false
		}
		pos = p
	}
	return Cursor{src: src, idx: idx, pos: pos}, true
}

// BPPos returns the cursor's BP open position.
func (c Cursor) BPPos() int { return c.pos }

// nodeID is the rank of the cursor's open paren.
func (c Cursor) nodeID() int { return c.idx.bp.Rank1(c.pos) }

// Kind returns the node kind.
func (c Cursor) Kind() Kind {
	id := c.nodeID()
	off := int(c.idx.offsets[id])
	if off >= len(c.src) {
		return Invalid
	}
	switch c.src[off] {
	case '{':
		return Object
	case '[':
		return Array
	case '"':
		return String
	case 't':
		return True
	case 'f':
		return False
	case 'n':
		return Null
	default:
		return Number
	}
}

// IsContainer reports whether the node is an object or array.
func (c Cursor) IsContainer() bool {
	k := c.Kind()
	return k == Object || k == Array
}

// TextRange returns the node's [start, end) byte range in the source.
// For containers the end is one past the closing bracket; an unclosed
// node (malformed input) reports end == start.
func (c Cursor) TextRange() (int, int) {
	id := c.nodeID()
	start := int(c.idx.offsets[id])
	end := int(c.idx.ends[id])
	if end < start {
		end = start
	}
	return start, end
}

// ValueBytes returns the raw source slice for the node. For containers
// this is the entire bracketed substring.
func (c Cursor) ValueBytes() []byte {
	start, end := c.TextRange()
	return c.src[start:end]
}

// FirstChild returns the node's first child: None for leaves and empty
// containers.
func (c Cursor) FirstChild() (Cursor, bool) {
	p, ok := c.idx.bp.FirstChild(c.pos)
	if !ok {
		return Cursor{}, false
	}
	return Cursor{src: c.src, idx: c.idx, pos: p}, true
}

// NextSibling returns the next sibling, if any.
func (c Cursor) NextSibling() (Cursor, bool) {
	p, ok := c.idx.bp.NextSibling(c.pos)
	if !ok {
		return Cursor{}, false
	}
	return Cursor{src: c.src, idx: c.idx, pos: p}, true
}

// Parent returns the enclosing node; None at the root.
func (c Cursor) Parent() (Cursor, bool) {
	p, ok := c.idx.bp.Enclose(c.pos)
	if !ok {
		return Cursor{}, false
	}
	return Cursor{src: c.src, idx: c.idx, pos: p}, true
}

// ChildCount returns the exact number of children, by iteration.
func (c Cursor) ChildCount() int {
	n := 0
	ch, ok := c.FirstChild()
	for ok {
		n++
		ch, ok = ch.NextSibling()
	}
	return n
}

// SubtreeSize returns the number of nodes in this subtree, including
// the node itself.
func (c Cursor) SubtreeSize() int {
	return c.idx.bp.SubtreeSize(c.pos)
}

// Index returns the i-th child (0-indexed) of an array or object.
func (c Cursor) Index(i int) (Cursor, bool) {
	if i < 0 {
		return Cursor{}, false
	}
	ch, ok := c.FirstChild()
	for ok && i > 0 {
		ch, ok = ch.NextSibling()
		i--
	}
	return ch, ok
}

// Field returns the object member value with the given key. It scans
// members in order, extracting each key from the source; O(n) in the
// member count.
func (c Cursor) Field(name string) (Cursor, bool) {
	if c.Kind() != Object {
		return Cursor{}, false
	}
	ch, ok := c.FirstChild()
	for ok {
		if key, kok := ch.fieldNameRaw(); kok && keyEquals(key, name) {
			return ch, true
		}
		ch, ok = ch.NextSibling()
	}
	return Cursor{}, false
}

// FieldName returns the object key naming this node, when the node is
// an object member value. The bytes are the raw key content between
// the quotes, escapes included.
func (c Cursor) FieldName() ([]byte, bool) {
	if p, ok := c.Parent(); !ok || p.Kind() != Object {
		return nil, false
	}
	return c.fieldNameRaw()
}

// fieldNameRaw scans backward from the node's start: whitespace, a
// colon, whitespace, then the key string whose closing quote must
// directly precede. Escaped quotes inside the key are handled by
// counting backslashes.
func (c Cursor) fieldNameRaw() ([]byte, bool) {
	i := int(c.idx.offsets[c.nodeID()]) - 1
	for i >= 0 && isSpace(c.src[i]) {
		i--
	}
	if i < 0 || c.src[i] != ':' {
		return nil, false
	}
	i--
	for i >= 0 && isSpace(c.src[i]) {
		i--
	}
	if i < 0 || c.src[i] != '"' {
		return nil, false
	}
	end := i // closing quote
	for i--; i >= 0; i-- {
		if c.src[i] != '"' {
			continue
		}
		// A quote preceded by an even number of backslashes opens
		// the key.
		bs := 0
		for j := i - 1; j >= 0 && c.src[j] == '\\'; j-- {
			bs++
		}
		if bs%2 == 0 {
			return c.src[i+1 : end], true
		}
	}
	return nil, false
}

// keyEquals compares a raw key (possibly containing escapes) with a
// literal name.
func keyEquals(raw []byte, name string) bool {
	if !containsEscape(raw) {
		return string(raw) == name
	}
	key, err := unescapeString(raw)
	if err != nil {
		return false
	}
	return key == name
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
