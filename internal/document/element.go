package document

import (
	"errors"
	"fmt"
	"strconv"
)

// Element is a handle into the backing store of a Document, valid only until
// the next detaching mutation of that document. The zero Element is not Ok and
// is returned by navigation methods when the requested position is absent.
type Element struct {
	d   *Document
	idx int
	ver uint64
}

// Ok reports whether the handle still addresses a live node of its document.
func (e Element) Ok() bool {
	return e.d != nil && e.idx != none && e.ver == e.d.version && !e.d.nodes[e.idx].detached
}

// Kind returns the node shape addressed by the handle.
func (e Element) Kind() Kind {
	if !e.Ok() {
		return KindValue
	}
	return e.d.nodes[e.idx].kind
}

// IsLeaf reports whether the element holds a value rather than a container.
func (e Element) IsLeaf() bool {
	return e.Ok() && e.d.nodes[e.idx].kind == KindValue
}

// Key returns the element's field name within its parent. Children of ordered
// containers have no key.
func (e Element) Key() string {
	if !e.Ok() {
		return ""
	}
	return e.d.nodes[e.idx].key
}

// Value returns the tagged value of a leaf element, or the zero Value for
// containers and dead handles.
func (e Element) Value() Value {
	if !e.IsLeaf() {
		return Value{}
	}
	return e.d.nodes[e.idx].value
}

//------------------------------------------------------------------------------

// Parent returns the immediate parent of the element.
func (e Element) Parent() Element {
	return e.step(func(n node) int { return n.parent })
}

// FirstChild returns the first child of a container element.
func (e Element) FirstChild() Element {
	return e.step(func(n node) int { return n.firstChild })
}

// LastChild returns the last child of a container element.
func (e Element) LastChild() Element {
	return e.step(func(n node) int { return n.lastChild })
}

// LeftSibling returns the element immediately preceding e under the same
// parent.
func (e Element) LeftSibling() Element {
	return e.step(func(n node) int { return n.prev })
}

// RightSibling returns the element immediately following e under the same
// parent.
func (e Element) RightSibling() Element {
	return e.step(func(n node) int { return n.next })
}

func (e Element) step(fn func(node) int) Element {
	if !e.Ok() {
		return Element{}
	}
	idx := fn(e.d.nodes[e.idx])
	if idx == none {
		return Element{}
	}
	return Element{d: e.d, idx: idx, ver: e.ver}
}

// ChildNamed returns the child of a keyed container carrying the given field
// name.
func (e Element) ChildNamed(key string) Element {
	if !e.Ok() || e.d.nodes[e.idx].kind != KindObject {
		return Element{}
	}
	for c := e.FirstChild(); c.Ok(); c = c.RightSibling() {
		if c.Key() == key {
			return c
		}
	}
	return Element{}
}

// ChildAt returns the i'th child of an ordered container.
func (e Element) ChildAt(i int) Element {
	if !e.Ok() || e.d.nodes[e.idx].kind != KindArray || i < 0 {
		return Element{}
	}
	c := e.FirstChild()
	for ; c.Ok() && i > 0; c = c.RightSibling() {
		i--
	}
	return c
}

// ChildCount returns the number of children of a container element.
func (e Element) ChildCount() int {
	count := 0
	for c := e.FirstChild(); c.Ok(); c = c.RightSibling() {
		count++
	}
	return count
}

//------------------------------------------------------------------------------

// AppendValue appends a leaf child to a container element and returns its
// handle. The key is ignored for ordered containers.
func (e Element) AppendValue(key string, v Value) (Element, error) {
	return e.appendNode(node{kind: KindValue, key: key, value: v})
}

// AppendObject appends an empty keyed container child.
func (e Element) AppendObject(key string) (Element, error) {
	return e.appendNode(node{kind: KindObject, key: key})
}

// AppendArray appends an empty ordered container child.
func (e Element) AppendArray(key string) (Element, error) {
	return e.appendNode(node{kind: KindArray, key: key})
}

func (e Element) appendNode(n node) (Element, error) {
	if !e.Ok() {
		return Element{}, ErrStaleElement
	}
	parent := &e.d.nodes[e.idx]
	if parent.kind == KindValue {
		return Element{}, fmt.Errorf("cannot append a child to a %v element", parent.kind)
	}
	if parent.kind == KindArray {
		n.key = ""
	}
	n.parent = e.idx
	idx := e.d.alloc(n)

	// Re-read the parent, alloc may have grown the arena.
	parent = &e.d.nodes[e.idx]
	if parent.lastChild == none {
		parent.firstChild = idx
		parent.lastChild = idx
	} else {
		e.d.nodes[parent.lastChild].next = idx
		e.d.nodes[idx].prev = parent.lastChild
		parent.lastChild = idx
	}
	return Element{d: e.d, idx: idx, ver: e.ver}, nil
}

//------------------------------------------------------------------------------

// SetValueNull replaces the element's content with the null value in place,
// without touching the position of any sibling. Nulling a container truncates
// its subtree and therefore counts as a detaching mutation.
func (e Element) SetValueNull() error {
	if !e.Ok() {
		return ErrStaleElement
	}
	n := &e.d.nodes[e.idx]
	truncated := n.kind != KindValue
	if truncated {
		for c := n.firstChild; c != none; c = e.d.nodes[c].next {
			e.d.detach(c)
		}
		n.firstChild = none
		n.lastChild = none
	}
	n.kind = KindValue
	n.value = Null()
	if truncated {
		e.d.version++
	}
	return nil
}

// Remove structurally deletes the element from its parent, shifting the
// position of every following sibling. All handles predating the call become
// stale.
func (e Element) Remove() error {
	if !e.Ok() {
		return ErrStaleElement
	}
	if e.idx == 0 {
		return errors.New("cannot remove the document root")
	}
	n := e.d.nodes[e.idx]
	if n.prev != none {
		e.d.nodes[n.prev].next = n.next
	}
	if n.next != none {
		e.d.nodes[n.next].prev = n.prev
	}
	parent := &e.d.nodes[n.parent]
	if parent.firstChild == e.idx {
		parent.firstChild = n.next
	}
	if parent.lastChild == e.idx {
		parent.lastChild = n.prev
	}
	e.d.detach(e.idx)
	e.d.version++
	return nil
}

//------------------------------------------------------------------------------

func parseArrayIndex(part string) (int, error) {
	if part == "" {
		return 0, fmt.Errorf("'%v' is not a valid array index", part)
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("'%v' is not a valid array index", part)
		}
	}
	idx, err := strconv.Atoi(part)
	if err != nil {
		// All digits but beyond the int range: out of range of any real
		// container, the same absence as any other too-large index.
		return -1, nil
	}
	return idx, nil
}
