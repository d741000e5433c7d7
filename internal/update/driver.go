package update

import (
	"context"
	"fmt"

	"github.com/quilldb/quill/internal/document"
	"github.com/quilldb/quill/internal/log"
	"github.com/quilldb/quill/internal/oplog"
)

// Driver owns the operators of one update and executes them against target
// documents: resolve, mutate, validate siblings, then append a single oplog
// entry covering every mutated path. Operators with overlapping paths are
// rejected when added, two operators may not touch the same field or a field
// and its subtree within one update.
type Driver struct {
	ops    []*UnsetMatched
	walker Walker
	log    log.Modular
}

// DriverOption customises a driver.
type DriverOption func(*Driver)

// WithWalker selects the execution style used to locate paths within target
// documents.
func WithWalker(w Walker) DriverOption {
	return func(d *Driver) {
		d.walker = w
	}
}

// WithLogger provides a logger for apply-cycle diagnostics.
func WithLogger(l log.Modular) DriverOption {
	return func(d *Driver) {
		d.log = l
	}
}

// NewDriver returns an empty driver, applying operators with an ExactWalker
// unless overridden.
func NewDriver(opts ...DriverOption) *Driver {
	d := &Driver{
		walker: ExactWalker{},
		log:    log.Noop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add configures a field-removal operator and registers it with the driver.
// A positional placeholder counts as overlapping every concrete part in its
// position, since the index it binds to is not known until apply time.
func (d *Driver) Add(pathExpr string, operand document.Value) error {
	op, err := NewUnsetMatched(pathExpr, operand)
	if err != nil {
		return err
	}
	for _, existing := range d.ops {
		if existing.Path().IsPrefixOf(op.Path()) || op.Path().IsPrefixOf(existing.Path()) {
			return fmt.Errorf(
				"update path '%v' conflicts with path '%v' of another operator",
				op.Path().Dotted(), existing.Path().Dotted())
		}
	}
	d.ops = append(d.ops, op)
	return nil
}

// Len returns the number of registered operators.
func (d *Driver) Len() int {
	return len(d.ops)
}

// ExecResult summarises one apply cycle over one document.
type ExecResult struct {
	// Results holds the per-operator outcome in registration order.
	Results []ModifyResult

	// Entry is the replication record appended to the sink, nil when every
	// operator was a no-op.
	Entry *oplog.Entry
}

// Applied returns the number of operators that mutated the document.
func (r ExecResult) Applied() int {
	n := 0
	for _, res := range r.Results {
		if res == ModifyNormal {
			n++
		}
	}
	return n
}

// Execute applies every registered operator to the document in registration
// order. The matchedField binds positional placeholders, and may be empty when
// no operator is positional. On error the document may be partially mutated
// and must be discarded by the caller, nothing is appended to the sink.
func (d *Driver) Execute(ctx context.Context, doc *document.Document, matchedField string, sink oplog.Sink) (ExecResult, error) {
	lb := oplog.NewBuilder()
	results, err := d.walker.WalkAll(d.ops, doc, matchedField, lb)
	if err != nil {
		return ExecResult{}, err
	}

	out := ExecResult{Results: results}
	if entry, ok := lb.Entry(); ok {
		if sink != nil {
			if err := sink.Append(ctx, entry); err != nil {
				return ExecResult{}, fmt.Errorf("failed to append oplog entry: %w", err)
			}
		}
		out.Entry = &entry
	}

	d.log.Debugf("applied %v of %v operators, logged %v unsets", out.Applied(), len(d.ops), lb.Len())
	return out, nil
}
