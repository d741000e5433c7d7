package document

import (
	"fmt"
	"sort"

	"github.com/Jeffail/gabs/v2"
)

// FromAny builds a document from a generic structured value of the shape
// returned by JSON or YAML parsers, i.e. a tree of map[string]any, []any and
// scalars. The root must be an object. Object children are appended in sorted
// key order so that building is deterministic.
func FromAny(v any) (*Document, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root must be an object, got %T", v)
	}
	d := New()
	if err := appendAny(d.Root(), m); err != nil {
		return nil, err
	}
	return d, nil
}

// FromJSON parses a JSON document into a mutable tree.
func FromJSON(data []byte) (*Document, error) {
	g, err := gabs.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return FromAny(g.Data())
}

func appendAny(parent Element, v any) error {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := appendChild(parent, k, t[k]); err != nil {
				return err
			}
		}
	case []any:
		for _, c := range t {
			if err := appendChild(parent, "", c); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("cannot populate a container from %T", v)
	}
	return nil
}

func appendChild(parent Element, key string, v any) error {
	switch v.(type) {
	case map[string]any:
		child, err := parent.AppendObject(key)
		if err != nil {
			return err
		}
		return appendAny(child, v)
	case []any:
		child, err := parent.AppendArray(key)
		if err != nil {
			return err
		}
		return appendAny(child, v)
	default:
		val, err := ValueOf(v)
		if err != nil {
			return err
		}
		_, err = parent.AppendValue(key, val)
		return err
	}
}

// ToAny exports the document back into a generic structured value.
func (d *Document) ToAny() (any, error) {
	return elemToAny(d.Root())
}

// JSON renders the document as JSON.
func (d *Document) JSON() ([]byte, error) {
	v, err := d.ToAny()
	if err != nil {
		return nil, err
	}
	return gabs.Wrap(v).Bytes(), nil
}

func elemToAny(e Element) (any, error) {
	switch e.Kind() {
	case KindObject:
		m := map[string]any{}
		for c := e.FirstChild(); c.Ok(); c = c.RightSibling() {
			v, err := elemToAny(c)
			if err != nil {
				return nil, err
			}
			m[c.Key()] = v
		}
		return m, nil
	case KindArray:
		a := []any{}
		for c := e.FirstChild(); c.Ok(); c = c.RightSibling() {
			v, err := elemToAny(c)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		}
		return a, nil
	default:
		return valueToAny(e.Value())
	}
}

// Equal reports structural equality of two documents: keyed containers are
// compared by field name regardless of order, ordered containers positionally,
// and leaves by exact tagged value.
func (d *Document) Equal(other *Document) bool {
	return elemEqual(d.Root(), other.Root())
}

func elemEqual(a, b Element) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindObject:
		if a.ChildCount() != b.ChildCount() {
			return false
		}
		for c := a.FirstChild(); c.Ok(); c = c.RightSibling() {
			bc := b.ChildNamed(c.Key())
			if !bc.Ok() || !elemEqual(c, bc) {
				return false
			}
		}
		return true
	case KindArray:
		ac, bc := a.FirstChild(), b.FirstChild()
		for ac.Ok() && bc.Ok() {
			if !elemEqual(ac, bc) {
				return false
			}
			ac, bc = ac.RightSibling(), bc.RightSibling()
		}
		return !ac.Ok() && !bc.Ok()
	default:
		return a.Value().Equal(b.Value())
	}
}
