package update

import (
	"github.com/quilldb/quill/internal/document"
	"github.com/quilldb/quill/internal/fieldpath"
	"github.com/quilldb/quill/internal/oplog"
)

// Walker is an injectable execution style for applying a set of operators to
// one target document. Both implementations share the operator's resolution,
// mutation, validation and logging logic and differ only in how paths are
// located within the tree.
type Walker interface {
	// WalkAll applies each operator in order, collecting per-operator
	// outcomes and feeding log records for mutated paths into lb. The first
	// error aborts the document's update.
	WalkAll(ops []*UnsetMatched, doc *document.Document, matchedField string, lb *oplog.Builder) ([]ModifyResult, error)
}

//------------------------------------------------------------------------------

// ExactWalker resolves every operator's path independently and operates on the
// exact leaf it finds.
type ExactWalker struct{}

// WalkAll implements Walker.
func (ExactWalker) WalkAll(ops []*UnsetMatched, doc *document.Document, matchedField string, lb *oplog.Builder) ([]ModifyResult, error) {
	results := make([]ModifyResult, len(ops))
	for i, op := range ops {
		res, _, err := op.Prepare(doc, matchedField)
		if err != nil {
			return nil, err
		}
		results[i] = res.Outcome()
		if err := finishResolution(res, lb); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// finishResolution runs the mutate, validate and log steps of a single
// resolution, skipping all three for no-op outcomes.
func finishResolution(res *Resolution, lb *oplog.Builder) error {
	switch res.Outcome() {
	case ModifyNoOp:
		return nil
	case ModifyNormal:
		applied, err := res.Apply()
		if err != nil {
			return err
		}
		if err := res.Validate(applied); err != nil {
			return err
		}
		if lb != nil {
			return res.Log(lb)
		}
		return nil
	}
	return nil
}

//------------------------------------------------------------------------------

// SharedTreeWalker merges the bound paths of all operators into a single trie
// and visits the document once, handing each operator the deepest element its
// path reached. The operators must be conflict free: no path may be a prefix
// of another.
type SharedTreeWalker struct{}

type trieNode struct {
	children map[string]*trieNode
	ops      []int
}

func newTrieNode() *trieNode {
	return &trieNode{children: map[string]*trieNode{}}
}

func (t *trieNode) insert(path *fieldpath.Ref, op int) {
	cur := t
	for i := 0; i < path.NumParts(); i++ {
		part := path.Part(i)
		next, ok := cur.children[part]
		if !ok {
			next = newTrieNode()
			cur.children[part] = next
		}
		cur = next
	}
	cur.ops = append(cur.ops, op)
}

// WalkAll implements Walker.
func (SharedTreeWalker) WalkAll(ops []*UnsetMatched, doc *document.Document, matchedField string, lb *oplog.Builder) ([]ModifyResult, error) {
	trie := newTrieNode()
	paths := make([]*fieldpath.Ref, len(ops))
	for i, op := range ops {
		path := op.Path().Clone()
		if op.Positional() {
			if matchedField == "" {
				return nil, &BindingError{Path: op.Path().Dotted()}
			}
			pos, _ := fieldpath.FindPlaceholder(path)
			path.SetPart(pos, matchedField)
		}
		paths[i] = path
		trie.insert(path, i)
	}

	// Resolve every operator in one traversal before any of them mutates the
	// tree, then finish them one by one.
	resolutions := make([]*Resolution, len(ops))
	record := func(node *trieNode, depth int, elem document.Element) {
		var walk func(n *trieNode)
		walk = func(n *trieNode) {
			for _, op := range n.ops {
				resolutions[op] = ops[op].resolved(doc, paths[op], depth, elem)
			}
			for _, c := range n.children {
				walk(c)
			}
		}
		walk(node)
	}

	var visit func(node *trieNode, depth int, elem document.Element) error
	visit = func(node *trieNode, depth int, elem document.Element) error {
		for _, op := range node.ops {
			resolutions[op] = ops[op].resolved(doc, paths[op], depth, elem)
		}
		for part, child := range node.children {
			next, err := document.Step(elem, part)
			if err != nil {
				return &ResolutionError{Path: pathOfFirst(child, paths), Cause: err}
			}
			if !next.Ok() {
				// Nothing below this part exists: every operator in the
				// subtree resolves to the prefix matched so far.
				if depth < 0 {
					record(child, -1, document.Element{})
				} else {
					record(child, depth, elem)
				}
				continue
			}
			if err := visit(child, depth+1, next); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(trie, -1, doc.Root()); err != nil {
		return nil, err
	}

	results := make([]ModifyResult, len(ops))
	for i, res := range resolutions {
		results[i] = res.Outcome()
		res.refresh()
		if err := finishResolution(res, lb); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// pathOfFirst returns the dotted path of any operator terminating within the
// given subtree, for error reporting.
func pathOfFirst(node *trieNode, paths []*fieldpath.Ref) string {
	if len(node.ops) > 0 {
		return paths[node.ops[0]].Dotted()
	}
	for _, c := range node.children {
		if p := pathOfFirst(c, paths); p != "" {
			return p
		}
	}
	return ""
}
