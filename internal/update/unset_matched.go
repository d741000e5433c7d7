// Package update implements the in-place field-removal operator of the update
// execution engine: given a dotted field path and an operand value, a target
// document has the field removed when (and only when) its current value
// exactly matches the operand, and a replication record reproducing the same
// effect is emitted.
package update

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/multierr"

	"github.com/quilldb/quill/internal/document"
	"github.com/quilldb/quill/internal/fieldpath"
	"github.com/quilldb/quill/internal/oplog"
	"github.com/quilldb/quill/internal/validation"
)

// UnsetMatched is the field-removal operator. It owns its parsed path and
// operand for its whole lifetime and holds no per-document state, so a single
// configured operator can be applied to any number of target documents.
type UnsetMatched struct {
	path           *fieldpath.Ref
	operand        document.Value
	placeholderPos int
}

// NewUnsetMatched configures an operator from a dotted path expression and an
// operand value. The path must be updatable and may contain at most one
// positional placeholder.
func NewUnsetMatched(pathExpr string, operand document.Value) (*UnsetMatched, error) {
	ref, err := fieldpath.Parse(pathExpr)
	if err != nil {
		return nil, &ConfigError{Path: pathExpr, Reason: err}
	}
	if err := fieldpath.CheckUpdatable(ref); err != nil {
		return nil, &ConfigError{Path: pathExpr, Reason: err}
	}
	pos, count := fieldpath.FindPlaceholder(ref)
	if count > 1 {
		return nil, &ConfigError{
			Path:   pathExpr,
			Reason: fmt.Errorf("too many positional (i.e. '%v') elements found", fieldpath.Placeholder),
		}
	}
	return &UnsetMatched{path: ref, operand: operand, placeholderPos: pos}, nil
}

// Positional reports whether the configured path carries a placeholder that
// must be bound before resolution.
func (u *UnsetMatched) Positional() bool {
	return u.placeholderPos >= 0
}

// Path returns the configured, unbound path.
func (u *UnsetMatched) Path() *fieldpath.Ref {
	return u.path
}

//------------------------------------------------------------------------------

// ExecInfo reports, per target document, which path an operator touches and
// whether applying it is a no-op. The owning driver uses the path to sort out
// conflicts between the operators of one update.
type ExecInfo struct {
	Path *fieldpath.Ref
	NoOp bool
}

// Resolution is the per-document working state of one apply cycle: the bound
// path, the deepest existing element along it, and the pre-computed outcome.
// It must be consumed within the same cycle and never reused across documents
// or across mutations performed by another operator.
type Resolution struct {
	op       *UnsetMatched
	doc      *document.Document
	path     *fieldpath.Ref
	idxFound int
	elem     document.Element
	noOp     bool
	applied  bool
}

// Prepare resolves the operator against a target document. When the operator
// is positional, matchedField supplies the concrete index found by the
// upstream query match and is bound into a working copy of the path.
func (u *UnsetMatched) Prepare(doc *document.Document, matchedField string) (*Resolution, *ExecInfo, error) {
	path := u.path.Clone()
	if u.Positional() {
		if matchedField == "" {
			return nil, nil, &BindingError{Path: u.path.Dotted()}
		}
		path.SetPart(u.placeholderPos, matchedField)
	}

	// Locate the path in the document. Not all parts need to exist: absence
	// merely makes the apply a no-op, only a structural conflict aborts.
	idx, elem, err := document.FindLongestPrefix(path, doc.Root())
	if errors.Is(err, document.ErrNonExistentPath) {
		idx, elem = -1, document.Element{}
	} else if err != nil {
		return nil, nil, &ResolutionError{Path: path.Dotted(), Cause: err}
	}

	res := u.resolved(doc, path, idx, elem)
	return res, &ExecInfo{Path: path, NoOp: res.noOp}, nil
}

// resolved computes the outcome gate shared by every execution style: the
// destination must exist in full, and its current content must match the
// operand exactly, for the apply to be anything but a no-op.
func (u *UnsetMatched) resolved(doc *document.Document, path *fieldpath.Ref, idx int, elem document.Element) *Resolution {
	res := &Resolution{op: u, doc: doc, path: path, idxFound: idx, elem: elem}
	destExists := elem.Ok() && idx == path.NumParts()-1
	if !destExists {
		res.noOp = true
	} else {
		res.noOp = !elementMatches(elem, u.operand)
	}
	return res
}

// Outcome returns the pre-computed result of the resolution.
func (r *Resolution) Outcome() ModifyResult {
	if r.noOp {
		return ModifyNoOp
	}
	return ModifyNormal
}

// Path returns the fully bound path of this resolution.
func (r *Resolution) Path() *fieldpath.Ref {
	return r.path
}

// refresh re-acquires the resolved handle at the document's current version.
// Only walkers that interleave the mutations of conflict-free operators may
// use this, a detached position still surfaces as a stale handle on apply.
func (r *Resolution) refresh() {
	r.elem = r.doc.Refresh(r.elem)
}

//------------------------------------------------------------------------------

// Applied carries handles, re-acquired after the mutation, for the positions
// the post-mutation validator inspects. Target is the surviving nulled slot
// for ordered containers and a dead handle after a structural delete.
type Applied struct {
	Target document.Element
	Left   document.Element
	Right  document.Element
}

// Apply executes the mutation step for a resolution whose outcome is
// ModifyNormal. Calling it on a no-op resolution is a programming error.
func (r *Resolution) Apply() (Applied, error) {
	if r.noOp {
		panic("update: Apply called on a no-op resolution")
	}
	if r.applied {
		panic("update: Apply called twice on one resolution")
	}

	left, right, target := r.elem.LeftSibling(), r.elem.RightSibling(), r.elem
	if err := removeElement(r.elem); err != nil {
		return Applied{}, fmt.Errorf("internal update failure on path '%v': %w", r.path.Dotted(), err)
	}
	r.applied = true
	return Applied{
		Target: r.doc.Refresh(target),
		Left:   r.doc.Refresh(left),
		Right:  r.doc.Refresh(right),
	}, nil
}

// removeElement is the mutation step shared by apply and replay. An element of
// an ordered container is nulled in place so that sibling indices keep their
// meaning, any other element is structurally deleted from its parent.
func removeElement(elem document.Element) error {
	if !elem.Ok() {
		return document.ErrStaleElement
	}
	parent := elem.Parent()
	if parent.Ok() && parent.Kind() == document.KindArray {
		return elem.SetValueNull()
	}
	return elem.Remove()
}

// Validate re-checks the immediate left and right siblings of the mutated
// position: removing or nulling an element can orphan one half of a reference
// pair that relied on adjacency. Failure means the document is invalid and
// must not be persisted.
func (r *Resolution) Validate(a Applied) error {
	if !r.applied {
		panic("update: Validate called before Apply")
	}
	var err error
	if a.Left.Ok() {
		err = multierr.Append(err, validation.CheckStorable(a.Left, false, true))
	}
	if a.Right.Ok() {
		err = multierr.Append(err, validation.CheckStorable(a.Right, false, true))
	}
	if err != nil {
		return &ValidationError{Path: r.path.Dotted(), Cause: err}
	}
	return nil
}

// Log emits exactly one unset record for the fully resolved path. Callers
// skip it for no-op outcomes, a cycle that mutated nothing logs nothing.
func (r *Resolution) Log(b *oplog.Builder) error {
	if !r.applied {
		panic("update: Log called before Apply")
	}
	return b.AddUnset(r.path.Dotted())
}

//------------------------------------------------------------------------------

// elementMatches compares the current content of an element against an
// operand value: exact tagged equality for leaves, per-field equality
// (order-insensitive) for keyed containers, positional equality for ordered
// containers. No type coercion happens at any level.
func elementMatches(elem document.Element, operand document.Value) bool {
	switch elem.Kind() {
	case document.KindObject:
		if operand.Type != bson.TypeEmbeddedDocument {
			return false
		}
		elems, err := bson.Raw(operand.Value).Elements()
		if err != nil || len(elems) != elem.ChildCount() {
			return false
		}
		for _, re := range elems {
			child := elem.ChildNamed(re.Key())
			if !child.Ok() || !elementMatches(child, re.Value()) {
				return false
			}
		}
		return true
	case document.KindArray:
		if operand.Type != bson.TypeArray {
			return false
		}
		elems, err := bson.Raw(operand.Value).Elements()
		if err != nil || len(elems) != elem.ChildCount() {
			return false
		}
		i := 0
		for c := elem.FirstChild(); c.Ok(); c = c.RightSibling() {
			if !elementMatches(c, elems[i].Value()) {
				return false
			}
			i++
		}
		return true
	default:
		return operand.Equal(elem.Value())
	}
}
