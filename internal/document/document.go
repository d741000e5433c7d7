// Package document implements a mutable, navigable document tree used as the
// target of update operators. Nodes live in an arena owned by the Document and
// are addressed through versioned Element handles, which become stale once a
// mutation detaches nodes from the tree.
package document

import (
	"errors"
)

// Kind enumerates the three node shapes of a document tree.
type Kind int

const (
	// KindObject is a keyed container whose children are named.
	KindObject Kind = iota

	// KindArray is an ordered container whose children are positionally
	// significant.
	KindArray

	// KindValue is a leaf holding a tagged value.
	KindValue
)

// String returns a human readable kind name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindValue:
		return "value"
	}
	return "unknown"
}

// ErrStaleElement is returned when a mutation is attempted through a handle
// that predates a detaching mutation of the same document. This is a caller
// contract violation: handles must not be reused across mutations.
var ErrStaleElement = errors.New("element handle is stale or detached")

const none = -1

type node struct {
	kind  Kind
	key   string
	value Value

	parent     int
	firstChild int
	lastChild  int
	prev       int
	next       int

	detached bool
}

// Document owns the backing store of a document tree. The zero value is not
// usable, construct documents with New, FromAny or FromJSON.
type Document struct {
	nodes   []node
	version uint64
}

// New returns an empty document whose root is a keyed container.
func New() *Document {
	d := &Document{}
	d.alloc(node{kind: KindObject, parent: none})
	return d
}

// Root returns a handle to the root container at the current version.
func (d *Document) Root() Element {
	return Element{d: d, idx: 0, ver: d.version}
}

// Version returns the current mutation version of the document. It increases
// whenever nodes are detached from the tree.
func (d *Document) Version() uint64 {
	return d.version
}

// Refresh re-acquires a handle at the current document version. It is the only
// sanctioned way of carrying a position across a detaching mutation, and
// returns a zero handle if the node itself was detached.
func (d *Document) Refresh(e Element) Element {
	if e.d != d || e.idx == none || e.idx >= len(d.nodes) || d.nodes[e.idx].detached {
		return Element{}
	}
	return Element{d: d, idx: e.idx, ver: d.version}
}

func (d *Document) alloc(n node) int {
	n.firstChild = none
	n.lastChild = none
	n.prev = none
	n.next = none
	d.nodes = append(d.nodes, n)
	return len(d.nodes) - 1
}

// detach marks the subtree rooted at idx as no longer part of the tree. Arena
// slots are never reused, so sibling indices captured before a detach remain
// meaningful to Refresh.
func (d *Document) detach(idx int) {
	n := &d.nodes[idx]
	n.detached = true
	for c := n.firstChild; c != none; c = d.nodes[c].next {
		d.detach(c)
	}
}
