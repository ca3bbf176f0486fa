package domain

import (
	"encoding/json"
	"fmt"
)

// identified is satisfied by both row types.
type identified interface {
	RowID() string
}

// CheckUniqueIDs returns ErrDuplicateRowID if two rows share an ID.
func CheckUniqueIDs[R identified](rows []R) error {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		id := r.RowID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateRowID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// RemoveRow returns a new list without the row identified by id.
// The last remaining row cannot be removed.
func RemoveRow[R identified](rows []R, id string) ([]R, error) {
	idx := indexOf(rows, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrRowNotFound, id)
	}
	if len(rows) == 1 {
		return nil, ErrLastRow
	}
	out := make([]R, 0, len(rows)-1)
	out = append(out, rows[:idx]...)
	out = append(out, rows[idx+1:]...)
	return out, nil
}

// UpdateRow returns a new list in which the row identified by id is replaced by fn(row).
func UpdateRow[R identified](rows []R, id string, fn func(R) R) ([]R, error) {
	idx := indexOf(rows, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrRowNotFound, id)
	}
	out := CopyRows(rows)
	out[idx] = fn(out[idx])
	return out, nil
}

// CopyRows returns a shallow copy of the list. Rows are plain values, so the
// copy shares nothing with the original.
func CopyRows[R any](rows []R) []R {
	if rows == nil {
		return nil
	}
	out := make([]R, len(rows))
	copy(out, rows)
	return out
}

func indexOf[R identified](rows []R, id string) int {
	for i, r := range rows {
		if r.RowID() == id {
			return i
		}
	}
	return -1
}

// DecodeGradeRows decodes a persisted subject list. Anything that is not a
// non-empty JSON array of rows falls back to the default list; the second
// return value reports whether that happened.
func DecodeGradeRows(raw []byte) ([]GradeRow, bool) {
	var rows []GradeRow
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) == 0 {
		return DefaultGradeRows(), true
	}
	normalized, err := NormalizeGradeRows(rows)
	if err != nil {
		return DefaultGradeRows(), true
	}
	return normalized, false
}

// DecodeTermRows is DecodeGradeRows for term lists.
func DecodeTermRows(raw []byte) ([]TermRow, bool) {
	var rows []TermRow
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) == 0 {
		return DefaultTermRows(), true
	}
	normalized, err := NormalizeTermRows(rows)
	if err != nil {
		return DefaultTermRows(), true
	}
	return normalized, false
}
