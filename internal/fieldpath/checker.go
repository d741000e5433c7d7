package fieldpath

import (
	"fmt"
	"strings"
)

// CheckUpdatable returns an error if the path cannot be the target of an
// update: paths with empty parts, or parts that begin with a reserved '$'
// prefix, are rejected at configure time. The positional placeholder and the
// database reference field names are the only permitted '$' parts, references
// are plain fields that updates may legitimately target.
func CheckUpdatable(r *Ref) error {
	if r.NumParts() == 0 {
		return ErrEmptyPath
	}
	for i := 0; i < r.NumParts(); i++ {
		part := r.Part(i)
		if part == "" {
			return fmt.Errorf("field path '%v' contains an empty part", r.Dotted())
		}
		if !strings.HasPrefix(part, "$") {
			continue
		}
		switch part {
		case Placeholder, "$ref", "$id", "$db":
		default:
			return fmt.Errorf("field path '%v' contains a reserved part '%v'", r.Dotted(), part)
		}
	}
	return nil
}

// FindPlaceholder reports the index of the first positional placeholder part
// within the path along with the total number of occurrences. The position is
// -1 when the path contains no placeholder.
func FindPlaceholder(r *Ref) (pos, count int) {
	pos = -1
	for i := 0; i < r.NumParts(); i++ {
		if r.Part(i) == Placeholder {
			if pos == -1 {
				pos = i
			}
			count++
		}
	}
	return
}
