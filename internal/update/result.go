package update

// ModifyResult is the outcome of resolving an operator against one target
// document. Orchestration switches exhaustively on this value rather than
// dispatching through result objects.
type ModifyResult int

const (
	// ModifyNoOp means the operator has nothing to do for this document:
	// either the path did not fully resolve to an existing field, or the
	// field's value did not match the operand.
	ModifyNoOp ModifyResult = iota

	// ModifyNormal means the full path resolved to an existing field that must
	// be mutated exactly once.
	ModifyNormal
)

// String returns a human readable outcome name.
func (r ModifyResult) String() string {
	switch r {
	case ModifyNoOp:
		return "no-op"
	case ModifyNormal:
		return "normal-update"
	}
	return "unknown"
}
