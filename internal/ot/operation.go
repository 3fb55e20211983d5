package ot

// OpType identifies the kind of edit an operation performs.
type OpType string

const (
	Insert  OpType = "insert"
	Delete  OpType = "delete"
	Replace OpType = "replace"
)

// EditOperation is a single edit against a document, expressed over
// 0-based character offsets. Content is only meaningful for insert and
// replace, Length only for delete and replace. Values are immutable:
// Transform and Apply always produce new values.
type EditOperation struct {
	Type     OpType `json:"type"`
	Position int    `json:"position"`
	Length   int    `json:"length,omitempty"`
	Content  string `json:"content,omitempty"`
	UserID   string `json:"user_id"`
}

// Span returns the half-open character range [start, end) the operation
// touches: the inserted content for inserts, the affected length for
// deletes and replaces.
func (op EditOperation) Span() (start, end int) {
	if op.Type == Insert {
		return op.Position, op.Position + len(op.Content)
	}
	return op.Position, op.Position + op.Length
}

// Overlaps reports whether the spans of two operations intersect.
func (op EditOperation) Overlaps(other EditOperation) bool {
	s1, e1 := op.Span()
	s2, e2 := other.Span()
	return !(e1 <= s2 || e2 <= s1)
}

// Apply materializes the operation on content. Out-of-range positions
// are clamped rather than rejected; validation belongs to the caller.
func Apply(content string, op EditOperation) string {
	switch op.Type {
	case Insert:
		p := clamp(op.Position, len(content))
		return content[:p] + op.Content + content[p:]
	case Delete:
		p := clamp(op.Position, len(content))
		end := clamp(p+op.Length, len(content))
		return content[:p] + content[end:]
	case Replace:
		p := clamp(op.Position, len(content))
		end := clamp(p+op.Length, len(content))
		return content[:p] + op.Content + content[end:]
	}
	return content
}

func clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
