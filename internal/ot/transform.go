package ot

// Transform rebases op so it remains valid after other has already taken
// effect. Applying two concurrent operations in either order, each
// transformed against the other, yields the same document.
//
// Positions at an insert/insert tie favor the already-recorded operation:
// the incoming operation is the one that shifts. Replace operations pass
// through untransformed in both operand positions; they are not
// decomposed into delete+insert.
func Transform(op, other EditOperation) EditOperation {
	if op.Type == Replace || other.Type == Replace {
		return op
	}

	switch {
	case op.Type == Insert && other.Type == Insert:
		if other.Position <= op.Position {
			op.Position += len(other.Content)
		}
	case op.Type == Insert && other.Type == Delete:
		if other.Position+other.Length <= op.Position {
			op.Position -= other.Length
		} else if other.Position < op.Position {
			// Insert point fell inside the deleted range.
			op.Position = other.Position
		}
	case op.Type == Delete && other.Type == Insert:
		if other.Position <= op.Position {
			op.Position += len(other.Content)
		}
	case op.Type == Delete && other.Type == Delete:
		op = transformDeleteDelete(op, other)
	}
	return op
}

func transformDeleteDelete(op, other EditOperation) EditOperation {
	start, end := op.Span()
	oStart, oEnd := other.Span()

	// Length shrinks by however much of op's range other already deleted.
	// Full containment collapses it to zero.
	if overlap := min(end, oEnd) - max(start, oStart); overlap > 0 {
		op.Length -= overlap
	}

	// Position shifts left by the part of other's range before op's start.
	if prefix := min(start, oEnd) - oStart; prefix > 0 {
		op.Position -= prefix
	}
	return op
}
