package attendance

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jacksonlee411/hrops/pkg/roster"
)

func statusPtr(s Status) *Status { return &s }
func strPtr(s string) *string    { return &s }

var testEmployees = []roster.Employee{
	{ID: "A", Name: "Ava"},
	{ID: "B", Name: "Ben"},
	{ID: "C", Name: "Cleo"},
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"Present", StatusPresent, true},
		{" remote ", StatusRemote, true},
		{"LEAVE", StatusLeave, true},
		{"absent", StatusAbsent, true},
		{"sick", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseStatus(tc.in)
			if tc.ok {
				if err != nil || got != tc.want {
					t.Fatalf("got=%q err=%v", got, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidStatus) {
				t.Fatalf("err=%v", err)
			}
		})
	}
}

func TestNewStore(t *testing.T) {
	t.Run("duplicate key", func(t *testing.T) {
		_, err := NewStore(
			Record{EmployeeID: "A", Date: "2024-05-20", Status: StatusPresent},
			Record{EmployeeID: "A", Date: "2024-05-20", Status: StatusLeave},
		)
		if !errors.Is(err, ErrDuplicateRecord) {
			t.Fatalf("err=%v", err)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := NewStore(Record{EmployeeID: "A", Date: "2024-5-20", Status: StatusPresent})
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("err=%v", err)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := NewStore(Record{EmployeeID: "A", Date: "2024-05-20", Status: "Vacation"})
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("err=%v", err)
		}
	})

	t.Run("normalizes status case", func(t *testing.T) {
		s, err := NewStore(Record{EmployeeID: "A", Date: "2024-05-20", Status: "remote"})
		if err != nil {
			t.Fatal(err)
		}
		if got := s.StatusOf("A", "2024-05-20"); got != StatusRemote {
			t.Fatalf("got=%q", got)
		}
	})
}

func TestStatusOf_MissingReadsAbsent(t *testing.T) {
	s, err := NewStore(Record{EmployeeID: "A", Date: "2024-05-20", Status: StatusPresent})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.StatusOf("B", "2024-05-20"); got != StatusAbsent {
		t.Fatalf("got=%q", got)
	}
	if got := s.StatusOf("A", "2024-05-21"); got != StatusAbsent {
		t.Fatalf("got=%q", got)
	}
	var empty Store
	if got := empty.StatusOf("A", "2024-05-20"); got != StatusAbsent {
		t.Fatalf("got=%q", got)
	}
}

func TestUpsert(t *testing.T) {
	const date = "2024-05-20"

	t.Run("creates with Present default", func(t *testing.T) {
		s := Upsert(Store{}, "A", date, Changes{Notes: strPtr("late train")})
		r, ok := s.Lookup("A", date)
		if !ok {
			t.Fatal("expected record")
		}
		if r.Status != StatusPresent || r.Notes != "late train" {
			t.Fatalf("r=%+v", r)
		}
	})

	t.Run("creates with given status", func(t *testing.T) {
		s := Upsert(Store{}, "A", date, Changes{Status: statusPtr(StatusLeave)})
		if got := s.StatusOf("A", date); got != StatusLeave {
			t.Fatalf("got=%q", got)
		}
	})

	t.Run("merges only provided fields", func(t *testing.T) {
		base, err := NewStore(Record{EmployeeID: "A", Date: date, Status: StatusRemote, Notes: "vpn"})
		if err != nil {
			t.Fatal(err)
		}
		s := Upsert(base, "A", date, Changes{Status: statusPtr(StatusPresent)})
		r, _ := s.Lookup("A", date)
		if r.Status != StatusPresent || r.Notes != "vpn" {
			t.Fatalf("r=%+v", r)
		}
		s = Upsert(s, "A", date, Changes{Notes: strPtr("")})
		r, _ = s.Lookup("A", date)
		if r.Status != StatusPresent || r.Notes != "" {
			t.Fatalf("r=%+v", r)
		}
		if s.Len() != 1 {
			t.Fatalf("len=%d", s.Len())
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		base, err := NewStore(Record{EmployeeID: "A", Date: date, Status: StatusRemote})
		if err != nil {
			t.Fatal(err)
		}
		_ = Upsert(base, "A", date, Changes{Status: statusPtr(StatusLeave)})
		_ = Upsert(base, "B", date, Changes{})
		if got := base.StatusOf("A", date); got != StatusRemote {
			t.Fatalf("got=%q", got)
		}
		if base.Len() != 1 {
			t.Fatalf("len=%d", base.Len())
		}
	})

	t.Run("idempotent for repeated values", func(t *testing.T) {
		changes := Changes{Status: statusPtr(StatusRemote), Notes: strPtr("home")}
		once := Upsert(Store{}, "A", date, changes)
		twice := Upsert(once, "A", date, changes)
		if !reflect.DeepEqual(once.Records(), twice.Records()) {
			t.Fatalf("once=%+v twice=%+v", once.Records(), twice.Records())
		}
	})
}

func TestBulkSetStatus(t *testing.T) {
	const date = "2024-05-20"
	base, err := NewStore(
		Record{EmployeeID: "A", Date: date, Status: StatusLeave, Notes: "pto"},
		Record{EmployeeID: "ghost", Date: date, Status: StatusPresent},
		Record{EmployeeID: "B", Date: "2024-05-19", Status: StatusRemote},
	)
	if err != nil {
		t.Fatal(err)
	}

	s := BulkSetStatus(base, date, StatusPresent, testEmployees)

	got := s.ForDate(date)
	if len(got) != len(testEmployees) {
		t.Fatalf("records=%+v", got)
	}
	seen := map[string]int{}
	for _, r := range got {
		seen[r.EmployeeID]++
		if r.Status != StatusPresent {
			t.Fatalf("r=%+v", r)
		}
	}
	for _, e := range testEmployees {
		if seen[e.ID] != 1 {
			t.Fatalf("employee %s count=%d", e.ID, seen[e.ID])
		}
	}
	if r, _ := s.Lookup("A", date); r.Notes != "pto" {
		t.Fatalf("notes lost: %+v", r)
	}
	if _, ok := s.Lookup("ghost", date); ok {
		t.Fatal("non-roster record should be dropped")
	}
	if r, ok := s.Lookup("B", "2024-05-19"); !ok || r.Status != StatusRemote {
		t.Fatalf("other date touched: %+v ok=%v", r, ok)
	}
	if got := base.StatusOf("A", date); got != StatusLeave {
		t.Fatalf("input mutated: %q", got)
	}
}

func TestLatestDate(t *testing.T) {
	if _, ok := (Store{}).LatestDate(); ok {
		t.Fatal("expected none")
	}
	s, err := NewStore(
		Record{EmployeeID: "A", Date: "2024-05-21", Status: StatusPresent},
		Record{EmployeeID: "A", Date: "2024-05-19", Status: StatusPresent},
	)
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := s.LatestDate(); !ok || d != "2024-05-21" {
		t.Fatalf("d=%q ok=%v", d, ok)
	}
}

func TestSummarize(t *testing.T) {
	const date = "2024-05-20"
	s, err := NewStore(
		Record{EmployeeID: "A", Date: date, Status: StatusPresent},
		Record{EmployeeID: "B", Date: date, Status: StatusRemote},
	)
	if err != nil {
		t.Fatal(err)
	}

	sum := Summarize(testEmployees, s, date)
	if sum.Counts[StatusPresent] != 1 || sum.Counts[StatusRemote] != 1 || sum.Counts[StatusAbsent] != 0 {
		t.Fatalf("counts=%+v", sum.Counts)
	}
	want := (1 + 0.9) / 3 * 100
	if sum.ProductivityScore != want {
		t.Fatalf("score=%v want=%v", sum.ProductivityScore, want)
	}

	empty := Summarize(nil, Store{}, date)
	if empty.ProductivityScore != 0 {
		t.Fatalf("score=%v", empty.ProductivityScore)
	}

	rows := Board(testEmployees, s, date)
	if rows[2].Status != StatusAbsent || rows[2].Recorded {
		t.Fatalf("row=%+v", rows[2])
	}
}
