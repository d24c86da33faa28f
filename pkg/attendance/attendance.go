package attendance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jacksonlee411/hrops/pkg/roster"
)

const DateLayout = "2006-01-02"

type Status string

const (
	StatusPresent Status = "Present"
	StatusRemote  Status = "Remote"
	StatusLeave   Status = "Leave"
	StatusAbsent  Status = "Absent"
)

var Statuses = []Status{StatusPresent, StatusRemote, StatusLeave, StatusAbsent}

var (
	ErrInvalidStatus   = errors.New("attendance: invalid status")
	ErrInvalidDate     = errors.New("attendance: invalid date")
	ErrDuplicateRecord = errors.New("attendance: duplicate record")
)

func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	for _, s := range Statuses {
		if strings.EqualFold(raw, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

func ParseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return raw, nil
}

type Record struct {
	EmployeeID string `json:"employee_id" yaml:"employee_id"`
	Date       string `json:"date" yaml:"date"`
	Status     Status `json:"status" yaml:"status"`
	Notes      string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Changes is a partial update; nil fields are left untouched.
type Changes struct {
	Status *Status
	Notes  *string
}

type key struct {
	employeeID string
	date       string
}

// Store is an immutable snapshot. Every update returns a new Store and leaves
// the receiver untouched.
type Store struct {
	records []Record
	index   map[key]int
}

func NewStore(records ...Record) (Store, error) {
	s := Store{
		records: make([]Record, 0, len(records)),
		index:   make(map[key]int, len(records)),
	}
	for i, r := range records {
		r.EmployeeID = strings.TrimSpace(r.EmployeeID)
		date, err := ParseDate(r.Date)
		if err != nil {
			return Store{}, fmt.Errorf("record %d: %w", i+1, err)
		}
		r.Date = date
		st, err := ParseStatus(string(r.Status))
		if err != nil {
			return Store{}, fmt.Errorf("record %d: %w", i+1, err)
		}
		r.Status = st
		k := key{r.EmployeeID, r.Date}
		if _, ok := s.index[k]; ok {
			return Store{}, fmt.Errorf("%w: employee=%s date=%s", ErrDuplicateRecord, r.EmployeeID, r.Date)
		}
		s.index[k] = len(s.records)
		s.records = append(s.records, r)
	}
	return s, nil
}

func (s Store) Len() int { return len(s.records) }

func (s Store) Records() []Record {
	return append([]Record(nil), s.records...)
}

func (s Store) Lookup(employeeID string, date string) (Record, bool) {
	i, ok := s.index[key{employeeID, date}]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

func (s Store) ForDate(date string) []Record {
	var out []Record
	for _, r := range s.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

// StatusOf reads a missing record as Absent.
func (s Store) StatusOf(employeeID string, date string) Status {
	if r, ok := s.Lookup(employeeID, date); ok {
		return r.Status
	}
	return StatusAbsent
}

// LatestDate returns the greatest date present in the store.
func (s Store) LatestDate() (string, bool) {
	latest := ""
	for _, r := range s.records {
		if r.Date > latest {
			latest = r.Date
		}
	}
	return latest, latest != ""
}

func (s Store) clone(extra int) Store {
	out := Store{
		records: make([]Record, len(s.records), len(s.records)+extra),
		index:   make(map[key]int, len(s.records)+extra),
	}
	copy(out.records, s.records)
	for k, v := range s.index {
		out.index[k] = v
	}
	return out
}

// Upsert creates the (employeeID, date) record on first edit, defaulting the
// status to Present, and otherwise overrides only the provided fields.
func Upsert(s Store, employeeID string, date string, changes Changes) Store {
	out := s.clone(1)
	k := key{employeeID, date}
	if i, ok := out.index[k]; ok {
		r := out.records[i]
		if changes.Status != nil {
			r.Status = *changes.Status
		}
		if changes.Notes != nil {
			r.Notes = *changes.Notes
		}
		out.records[i] = r
		return out
	}

	r := Record{EmployeeID: employeeID, Date: date, Status: StatusPresent}
	if changes.Status != nil {
		r.Status = *changes.Status
	}
	if changes.Notes != nil {
		r.Notes = *changes.Notes
	}
	out.index[k] = len(out.records)
	out.records = append(out.records, r)
	return out
}

// BulkSetStatus replaces every record for date with one record per roster
// employee carrying status. Notes from prior records are kept.
func BulkSetStatus(s Store, date string, status Status, employees []roster.Employee) Store {
	out := Store{
		records: make([]Record, 0, len(s.records)+len(employees)),
		index:   make(map[key]int, len(s.records)+len(employees)),
	}
	for _, r := range s.records {
		if r.Date == date {
			continue
		}
		out.index[key{r.EmployeeID, r.Date}] = len(out.records)
		out.records = append(out.records, r)
	}
	for _, e := range employees {
		r := Record{EmployeeID: e.ID, Date: date, Status: status}
		if prev, ok := s.Lookup(e.ID, date); ok {
			r.Notes = prev.Notes
		}
		out.index[key{e.ID, date}] = len(out.records)
		out.records = append(out.records, r)
	}
	return out
}
