package domain

import (
	"errors"
	"testing"
)

func TestRemoveRow(t *testing.T) {
	t.Parallel()

	rows := []GradeRow{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out, err := RemoveRow(rows, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "c" {
		t.Errorf("unexpected rows after removal: %+v", out)
	}
	if len(rows) != 3 || rows[1].ID != "b" {
		t.Error("RemoveRow mutated its input")
	}

	_, err = RemoveRow(rows, "zzz")
	if !errors.Is(err, ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}

	_, err = RemoveRow([]TermRow{{ID: "only"}}, "only")
	if !errors.Is(err, ErrLastRow) {
		t.Errorf("expected ErrLastRow, got %v", err)
	}
}

func TestUpdateRow(t *testing.T) {
	t.Parallel()

	rows := []GradeRow{{ID: "a", Name: "one"}, {ID: "b", Name: "two"}}
	out, err := UpdateRow(rows, "b", func(r GradeRow) GradeRow {
		r.Name = "changed"
		return r
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[1].Name != "changed" || out[1].ID != "b" {
		t.Errorf("unexpected updated row: %+v", out[1])
	}
	if rows[1].Name != "two" {
		t.Error("UpdateRow mutated its input")
	}

	_, err = UpdateRow(rows, "missing", func(r GradeRow) GradeRow { return r })
	if !errors.Is(err, ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}
}

func TestCheckUniqueIDs(t *testing.T) {
	t.Parallel()

	if err := CheckUniqueIDs([]TermRow{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckUniqueIDs([]TermRow{{ID: "a"}, {ID: "a"}}); !errors.Is(err, ErrDuplicateRowID) {
		t.Errorf("expected ErrDuplicateRowID, got %v", err)
	}
}

func TestDecodeGradeRows(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		raw          string
		wantFallback bool
		wantLen      int
	}{
		{"valid array", `[{"id":"1","name":"Maths","grade":"A","credits":3},{"id":"2","name":"Art","grade":"B","credits":2}]`, false, 2},
		{"empty array", `[]`, true, 1},
		{"object instead of array", `{"id":"1"}`, true, 1},
		{"garbage", `not json`, true, 1},
		{"null", `null`, true, 1},
		{"duplicate ids", `[{"id":"1"},{"id":"1"}]`, true, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rows, fallback := DecodeGradeRows([]byte(tc.raw))
			if fallback != tc.wantFallback {
				t.Errorf("fallback = %v, want %v", fallback, tc.wantFallback)
			}
			if len(rows) != tc.wantLen {
				t.Errorf("len(rows) = %d, want %d", len(rows), tc.wantLen)
			}
			if fallback && rows[0].ID != DefaultRowID {
				t.Errorf("expected default row, got %+v", rows[0])
			}
		})
	}
}

func TestDecodeTermRows(t *testing.T) {
	t.Parallel()

	rows, fallback := DecodeTermRows([]byte(`[{"id":"1","name":"Semester 1","gpa":8.5,"credits":20}]`))
	if fallback {
		t.Error("unexpected fallback for valid input")
	}
	if rows[0].GPA != 8.5 || rows[0].Credits != 20 {
		t.Errorf("unexpected row: %+v", rows[0])
	}

	rows, fallback = DecodeTermRows([]byte(`"semester"`))
	if !fallback || len(rows) != 1 || rows[0].ID != DefaultRowID {
		t.Errorf("expected default fallback, got %+v (fallback=%v)", rows, fallback)
	}
}
