package document

import (
	"errors"
	"fmt"

	"github.com/quilldb/quill/internal/fieldpath"
)

// ErrNonExistentPath is reported by FindLongestPrefix when not even the first
// part of the path exists in the document. Callers treat this as a clean
// "nothing to do" signal rather than a failure.
var ErrNonExistentPath = errors.New("path does not exist in the document")

// Step resolves a single path part against an element. A part that cannot
// exist under the element, because the part names an absent child or because
// the element is a leaf, yields a dead handle without error. Addressing an
// ordered container with a non-numeric part is a structural conflict and
// fails hard.
func Step(cur Element, part string) (Element, error) {
	if !cur.Ok() {
		return Element{}, ErrStaleElement
	}
	switch cur.Kind() {
	case KindObject:
		return cur.ChildNamed(part), nil
	case KindArray:
		idx, err := parseArrayIndex(part)
		if err != nil {
			return Element{}, fmt.Errorf("cannot use part '%v' to index an array: %w", part, err)
		}
		return cur.ChildAt(idx), nil
	default:
		return Element{}, nil
	}
}

// FindLongestPrefix locates the deepest element reachable by following the
// parts of ref while they continue to exist under root. It returns the index
// of the deepest matched part and a handle to the matched element.
//
// A path that stops short because a part is absent, or because it descends
// below an existing leaf, is not an error: the longest matched prefix is
// returned and the caller decides what absence means.
func FindLongestPrefix(ref *fieldpath.Ref, root Element) (int, Element, error) {
	if !root.Ok() {
		return 0, Element{}, ErrStaleElement
	}

	cur := root
	var found Element
	for i := 0; i < ref.NumParts(); i++ {
		child, err := Step(cur, ref.Part(i))
		if err != nil {
			return 0, Element{}, fmt.Errorf("path '%v': %w", ref.Dotted(), err)
		}
		if !child.Ok() {
			if i == 0 {
				return 0, Element{}, ErrNonExistentPath
			}
			return i - 1, found, nil
		}
		found = child
		cur = child
	}
	return ref.NumParts() - 1, found, nil
}
