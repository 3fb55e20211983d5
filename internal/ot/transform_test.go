package ot_test

import (
	"coedit/internal/ot"
	"testing"
)

func insert(pos int, content, user string) ot.EditOperation {
	return ot.EditOperation{Type: ot.Insert, Position: pos, Content: content, UserID: user}
}

func del(pos, length int, user string) ot.EditOperation {
	return ot.EditOperation{Type: ot.Delete, Position: pos, Length: length, UserID: user}
}

func replace(pos, length int, content, user string) ot.EditOperation {
	return ot.EditOperation{Type: ot.Replace, Position: pos, Length: length, Content: content, UserID: user}
}

func TestTransformInsertInsert(t *testing.T) {
	tests := []struct {
		name     string
		op       ot.EditOperation
		other    ot.EditOperation
		expected int
	}{
		{
			name:     "other before shifts right",
			op:       insert(5, "abc", "u1"),
			other:    insert(2, "xy", "u2"),
			expected: 7,
		},
		{
			name:     "other after leaves unchanged",
			op:       insert(2, "abc", "u1"),
			other:    insert(5, "xy", "u2"),
			expected: 2,
		},
		{
			name:     "tie favors recorded operation",
			op:       insert(3, "abc", "u1"),
			other:    insert(3, "xy", "u2"),
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ot.Transform(tt.op, tt.other)
			if got.Position != tt.expected {
				t.Errorf("Transform() position = %d, want %d", got.Position, tt.expected)
			}
			if got.Content != tt.op.Content {
				t.Errorf("Transform() content = %q, want %q", got.Content, tt.op.Content)
			}
		})
	}
}

func TestTransformInsertDelete(t *testing.T) {
	tests := []struct {
		name     string
		op       ot.EditOperation
		other    ot.EditOperation
		expected int
	}{
		{
			name:     "deletion wholly before shifts left",
			op:       insert(10, "abc", "u1"),
			other:    del(2, 4, "u2"),
			expected: 6,
		},
		{
			name:     "insert point inside deleted range clamps to range start",
			op:       insert(5, "abc", "u1"),
			other:    del(3, 6, "u2"),
			expected: 3,
		},
		{
			name:     "deletion after leaves unchanged",
			op:       insert(2, "abc", "u1"),
			other:    del(5, 3, "u2"),
			expected: 2,
		},
		{
			name:     "insert at deletion start leaves unchanged",
			op:       insert(3, "abc", "u1"),
			other:    del(3, 4, "u2"),
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ot.Transform(tt.op, tt.other)
			if got.Position != tt.expected {
				t.Errorf("Transform() position = %d, want %d", got.Position, tt.expected)
			}
		})
	}
}

func TestTransformDeleteInsert(t *testing.T) {
	tests := []struct {
		name     string
		op       ot.EditOperation
		other    ot.EditOperation
		expected int
	}{
		{
			name:     "insert before shifts right",
			op:       del(5, 3, "u1"),
			other:    insert(2, "xy", "u2"),
			expected: 7,
		},
		{
			name:     "insert at position shifts right",
			op:       del(5, 3, "u1"),
			other:    insert(5, "xy", "u2"),
			expected: 7,
		},
		{
			name:     "insert after leaves unchanged",
			op:       del(2, 3, "u1"),
			other:    insert(6, "xy", "u2"),
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ot.Transform(tt.op, tt.other)
			if got.Position != tt.expected {
				t.Errorf("Transform() position = %d, want %d", got.Position, tt.expected)
			}
			if got.Length != tt.op.Length {
				t.Errorf("Transform() length = %d, want %d", got.Length, tt.op.Length)
			}
		})
	}
}

func TestTransformDeleteDelete(t *testing.T) {
	tests := []struct {
		name       string
		op         ot.EditOperation
		other      ot.EditOperation
		wantPos    int
		wantLength int
	}{
		{
			name:       "disjoint before shifts left",
			op:         del(10, 5, "u1"),
			other:      del(5, 3, "u2"),
			wantPos:    7,
			wantLength: 5,
		},
		{
			name:       "disjoint after leaves unchanged",
			op:         del(2, 3, "u1"),
			other:      del(8, 4, "u2"),
			wantPos:    2,
			wantLength: 3,
		},
		{
			name:       "full containment collapses length",
			op:         del(4, 2, "u1"),
			other:      del(2, 8, "u2"),
			wantPos:    2,
			wantLength: 0,
		},
		{
			name:       "identical ranges collapse length",
			op:         del(3, 4, "u1"),
			other:      del(3, 4, "u2"),
			wantPos:    3,
			wantLength: 0,
		},
		{
			name:       "partial overlap from the left",
			op:         del(3, 5, "u1"),
			other:      del(0, 5, "u2"),
			wantPos:    0,
			wantLength: 3,
		},
		{
			name:       "partial overlap from the right",
			op:         del(0, 5, "u1"),
			other:      del(3, 5, "u2"),
			wantPos:    0,
			wantLength: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ot.Transform(tt.op, tt.other)
			if got.Position != tt.wantPos {
				t.Errorf("Transform() position = %d, want %d", got.Position, tt.wantPos)
			}
			if got.Length != tt.wantLength {
				t.Errorf("Transform() length = %d, want %d", got.Length, tt.wantLength)
			}
		})
	}
}

func TestTransformReplacePassThrough(t *testing.T) {
	rep := replace(4, 3, "new", "u1")

	// Replace as the transformed operand is returned unchanged.
	if got := ot.Transform(rep, insert(0, "xxxx", "u2")); got != rep {
		t.Errorf("Transform(replace, insert) = %+v, want unchanged", got)
	}
	if got := ot.Transform(rep, del(0, 2, "u2")); got != rep {
		t.Errorf("Transform(replace, delete) = %+v, want unchanged", got)
	}

	// Operations transformed against a replace are returned unchanged.
	ins := insert(10, "abc", "u1")
	if got := ot.Transform(ins, rep); got != ins {
		t.Errorf("Transform(insert, replace) = %+v, want unchanged", got)
	}
	d := del(10, 2, "u1")
	if got := ot.Transform(d, rep); got != d {
		t.Errorf("Transform(delete, replace) = %+v, want unchanged", got)
	}
}

// TestConvergence verifies the OT convergence property: two concurrent
// operations applied in either order, each transformed against the one
// already applied, produce the same final text.
func TestConvergence(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		a       ot.EditOperation
		b       ot.EditOperation
	}{
		{
			name:    "inserts at distinct positions",
			initial: "abcdefghij",
			a:       insert(2, "XX", "u1"),
			b:       insert(7, "YY", "u2"),
		},
		{
			name:    "insert after concurrent delete",
			initial: "abcdefghij",
			a:       insert(7, "XY", "u1"),
			b:       del(2, 3, "u2"),
		},
		{
			name:    "insert at delete boundary",
			initial: "abcdefgh",
			a:       insert(2, "Z", "u1"),
			b:       del(2, 4, "u2"),
		},
		{
			name:    "overlapping deletes",
			initial: "abcdefghij",
			a:       del(0, 5, "u1"),
			b:       del(3, 5, "u2"),
		},
		{
			name:    "nested deletes",
			initial: "abcdefghij",
			a:       del(2, 6, "u1"),
			b:       del(4, 2, "u2"),
		},
		{
			name:    "disjoint deletes",
			initial: "abcdefghij",
			a:       del(1, 2, "u1"),
			b:       del(6, 3, "u2"),
		},
		{
			name:    "delete before insert",
			initial: "abcdefghij",
			a:       del(0, 3, "u1"),
			b:       insert(8, "ZZ", "u2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// a first, then b rebased against a.
			abFirst := ot.Apply(tt.initial, tt.a)
			ab := ot.Apply(abFirst, ot.Transform(tt.b, tt.a))

			// b first, then a rebased against b.
			baFirst := ot.Apply(tt.initial, tt.b)
			ba := ot.Apply(baFirst, ot.Transform(tt.a, tt.b))

			if ab != ba {
				t.Errorf("diverged: a-then-b = %q, b-then-a = %q", ab, ba)
			}
		})
	}
}
