package roster

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyEmployeeID     = errors.New("roster: employee id is required")
	ErrDuplicateEmployeeID = errors.New("roster: duplicate employee id")
)

type Employee struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Role       string `json:"role" yaml:"role"`
	Department string `json:"department" yaml:"department"`
}

// Roster is the fixed, ordered employee set. The zero value is an empty roster.
type Roster struct {
	employees []Employee
	byID      map[string]int
}

func New(employees []Employee) (Roster, error) {
	r := Roster{
		employees: make([]Employee, 0, len(employees)),
		byID:      make(map[string]int, len(employees)),
	}
	for i, e := range employees {
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			return Roster{}, fmt.Errorf("employee %d: %w", i+1, ErrEmptyEmployeeID)
		}
		if _, ok := r.byID[e.ID]; ok {
			return Roster{}, fmt.Errorf("%w: %s", ErrDuplicateEmployeeID, e.ID)
		}
		r.byID[e.ID] = len(r.employees)
		r.employees = append(r.employees, e)
	}
	return r, nil
}

func MustNew(employees []Employee) Roster {
	r, err := New(employees)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Roster) Employees() []Employee {
	return append([]Employee(nil), r.employees...)
}

func (r Roster) Len() int { return len(r.employees) }

func (r Roster) Lookup(id string) (Employee, bool) {
	i, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return Employee{}, false
	}
	return r.employees[i], true
}

func (r Roster) Contains(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}
