package roster

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("keeps order and trims ids", func(t *testing.T) {
		r, err := New([]Employee{
			{ID: " e1 ", Name: "Ava"},
			{ID: "e2", Name: "Ben"},
		})
		if err != nil {
			t.Fatalf("err=%v", err)
		}
		got := r.Employees()
		if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e2" {
			t.Fatalf("got=%+v", got)
		}
		if r.Len() != 2 {
			t.Fatalf("len=%d", r.Len())
		}
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := New([]Employee{{ID: "  "}})
		if !errors.Is(err, ErrEmptyEmployeeID) {
			t.Fatalf("err=%v", err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := New([]Employee{{ID: "e1"}, {ID: "e1"}})
		if !errors.Is(err, ErrDuplicateEmployeeID) {
			t.Fatalf("err=%v", err)
		}
	})
}

func TestLookup(t *testing.T) {
	r := MustNew([]Employee{{ID: "e1", Name: "Ava", Department: "Finance"}})

	e, ok := r.Lookup("e1")
	if !ok || e.Name != "Ava" {
		t.Fatalf("e=%+v ok=%v", e, ok)
	}
	if r.Contains("e2") {
		t.Fatal("expected missing")
	}

	var zero Roster
	if zero.Len() != 0 || zero.Contains("e1") {
		t.Fatal("zero roster should be empty")
	}
}

func TestEmployeesReturnsCopy(t *testing.T) {
	r := MustNew([]Employee{{ID: "e1", Name: "Ava"}})
	list := r.Employees()
	list[0].Name = "mutated"
	if e, _ := r.Lookup("e1"); e.Name != "Ava" {
		t.Fatalf("roster mutated: %+v", e)
	}
}
