package update

import (
	"errors"
	"fmt"

	"github.com/quilldb/quill/internal/document"
	"github.com/quilldb/quill/internal/fieldpath"
	"github.com/quilldb/quill/internal/oplog"
)

// ReplayEntry reproduces the effect of an oplog entry on a document: each
// recorded path is removed unconditionally through the same mutation step the
// operator uses, so an ordered container's slot becomes null and a keyed field
// disappears. Paths that no longer resolve are skipped, which makes replaying
// the same entry twice a no-op.
func ReplayEntry(doc *document.Document, e oplog.Entry) error {
	for _, dotted := range e.Unsets {
		ref, err := fieldpath.Parse(dotted)
		if err != nil {
			return fmt.Errorf("oplog entry %v holds an invalid path: %w", e.ID, err)
		}

		idx, elem, err := document.FindLongestPrefix(ref, doc.Root())
		if errors.Is(err, document.ErrNonExistentPath) {
			continue
		}
		if err != nil {
			return &ResolutionError{Path: dotted, Cause: err}
		}
		if !elem.Ok() || idx != ref.NumParts()-1 {
			continue
		}
		if err := removeElement(elem); err != nil {
			return fmt.Errorf("internal replay failure on path '%v': %w", dotted, err)
		}
	}
	return nil
}

// ReplayAll replays a sequence of entries in order.
func ReplayAll(doc *document.Document, entries []oplog.Entry) error {
	for _, e := range entries {
		if err := ReplayEntry(doc, e); err != nil {
			return err
		}
	}
	return nil
}
