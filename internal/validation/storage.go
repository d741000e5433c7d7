// Package validation checks document elements for storable shape, in
// particular that '$'-prefixed field names only ever appear as part of a well
// formed database reference.
package validation

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/quilldb/quill/internal/document"
)

// CheckStorable validates a single element. When deep is set the whole subtree
// below the element is validated as well. When checkRefs is set '$'-prefixed
// field names are permitted as long as they form a reference run relative to
// their adjacent siblings: a '$ref' string immediately followed by '$id',
// optionally followed by a '$db' string. Without checkRefs any '$'-prefixed
// field name is rejected outright.
//
// Removing or nulling an element can orphan one half of a reference pair, so
// update operators re-check the immediate left and right siblings of a mutated
// position with checkRefs enabled.
func CheckStorable(elem document.Element, deep, checkRefs bool) error {
	if !elem.Ok() {
		return nil
	}
	if err := checkFieldName(elem, checkRefs); err != nil {
		return err
	}
	if deep {
		for c := elem.FirstChild(); c.Ok(); c = c.RightSibling() {
			if err := CheckStorable(c, true, checkRefs); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkFieldName(elem document.Element, checkRefs bool) error {
	name := elem.Key()
	if strings.Contains(name, ".") {
		return fmt.Errorf("field name '%v' must not contain '.'", name)
	}
	if !strings.HasPrefix(name, "$") {
		return nil
	}
	if !checkRefs {
		return fmt.Errorf("field name '%v' must not start with '$'", name)
	}
	switch name {
	case "$ref":
		if elem.Value().Type != bson.TypeString {
			return fmt.Errorf("'$ref' must be a string value")
		}
		if elem.RightSibling().Key() != "$id" {
			return fmt.Errorf("'$ref' must be followed by an '$id' field")
		}
	case "$id":
		if elem.LeftSibling().Key() != "$ref" {
			return fmt.Errorf("'$id' must be preceded by a '$ref' field")
		}
	case "$db":
		if elem.Value().Type != bson.TypeString {
			return fmt.Errorf("'$db' must be a string value")
		}
		if elem.LeftSibling().Key() != "$id" {
			return fmt.Errorf("'$db' must be preceded by an '$id' field")
		}
	default:
		return fmt.Errorf("field name '%v' must not start with '$'", name)
	}
	return nil
}
