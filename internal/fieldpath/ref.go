// Package fieldpath provides a parsed representation of dotted field paths
// used to address positions within a document tree.
package fieldpath

import (
	"errors"
	"strings"
)

// Placeholder is the path part standing in for an array index determined by an
// upstream query match. It must be bound to a concrete index before the path
// is resolved against a document.
const Placeholder = "$"

// ErrEmptyPath is returned when parsing an empty path expression.
var ErrEmptyPath = errors.New("field path is empty")

// Ref is an ordered sequence of path parts addressing a position in a
// document. A Ref is created once when an operator is configured and may be
// reused across many target documents, therefore bindings of the placeholder
// part should always happen on a working copy obtained via Clone.
type Ref struct {
	parts []string
}

// Parse splits a dotted path expression into its parts.
func Parse(raw string) (*Ref, error) {
	if raw == "" {
		return nil, ErrEmptyPath
	}
	return &Ref{parts: strings.Split(raw, ".")}, nil
}

// NumParts returns the number of parts in the path.
func (r *Ref) NumParts() int {
	return len(r.parts)
}

// Part returns the path part at index i.
func (r *Ref) Part(i int) string {
	return r.parts[i]
}

// SetPart replaces the part at index i, used to bind a placeholder part to a
// concrete index.
func (r *Ref) SetPart(i int, part string) {
	r.parts[i] = part
}

// Root returns the first part of the path. Operators report this to the update
// driver so that conflicting operators targeting overlapping paths can be
// rejected before any of them mutates the document.
func (r *Ref) Root() string {
	return r.parts[0]
}

// Dotted returns the path in its dotted string form.
func (r *Ref) Dotted() string {
	return strings.Join(r.parts, ".")
}

// Clone returns an independent copy of the path.
func (r *Ref) Clone() *Ref {
	parts := make([]string, len(r.parts))
	copy(parts, r.parts)
	return &Ref{parts: parts}
}

// IsPrefixOf returns true if r is equal to, or a path prefix of, other. An
// unbound placeholder part matches any part on either side: two operators
// conflict when some binding of their placeholders makes one path a prefix of
// the other, and bindings are not known until apply time.
func (r *Ref) IsPrefixOf(other *Ref) bool {
	if len(r.parts) > len(other.parts) {
		return false
	}
	for i, p := range r.parts {
		if other.parts[i] != p && p != Placeholder && other.parts[i] != Placeholder {
			return false
		}
	}
	return true
}
