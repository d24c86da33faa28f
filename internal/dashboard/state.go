package dashboard

import (
	"errors"
	"fmt"

	"github.com/jacksonlee411/hrops/internal/config"
	"github.com/jacksonlee411/hrops/pkg/attendance"
	"github.com/jacksonlee411/hrops/pkg/httperr"
	"github.com/jacksonlee411/hrops/pkg/payroll"
	"github.com/jacksonlee411/hrops/pkg/roster"
)

var (
	ErrUnknownEmployee = errors.New("dashboard: unknown employee")
	ErrUnknownIntent   = errors.New("dashboard: unknown intent")
)

// State is an immutable snapshot of everything the dashboard renders.
// Attendance intents target SelectedDate and payroll intents PayrollMonth.
type State struct {
	Roster       roster.Roster
	Attendance   attendance.Store
	Payroll      payroll.Store
	SelectedDate string
	PayrollMonth string
	Timeline     []config.TimelineItem
}

func StateFromConfig(c config.Config) State {
	return State{
		Roster:       c.Roster,
		Attendance:   c.Attendance,
		Payroll:      c.Payroll,
		SelectedDate: c.TrackingDate,
		PayrollMonth: c.PayrollMonth,
		Timeline:     append([]config.TimelineItem(nil), c.Timeline...),
	}
}

type Intent interface {
	Kind() string
}

type UpdateAttendance struct {
	EmployeeID string
	Status     *attendance.Status
	Notes      *string
}

type BulkUpdateAttendance struct {
	Status attendance.Status
}

type UpdatePayroll struct {
	EmployeeID string
	Changes    payroll.Changes
}

type ClearOvertime struct {
	EmployeeID string
}

type ChangeSelectedDate struct {
	Date string
}

func (UpdateAttendance) Kind() string     { return "update_attendance" }
func (BulkUpdateAttendance) Kind() string { return "bulk_update_attendance" }
func (UpdatePayroll) Kind() string        { return "update_payroll" }
func (ClearOvertime) Kind() string        { return "clear_overtime" }
func (ChangeSelectedDate) Kind() string   { return "change_selected_date" }

// Reduce applies intent to s and returns the next snapshot. s is never
// modified; on error the returned state is s.
func Reduce(s State, intent Intent) (State, error) {
	switch in := intent.(type) {
	case UpdateAttendance:
		e, err := s.requireEmployee(in.EmployeeID)
		if err != nil {
			return s, err
		}
		changes := attendance.Changes{Notes: in.Notes}
		if in.Status != nil {
			st, err := attendance.ParseStatus(string(*in.Status))
			if err != nil {
				return s, httperr.WrapBadRequest(err)
			}
			changes.Status = &st
		}
		s.Attendance = attendance.Upsert(s.Attendance, e.ID, s.SelectedDate, changes)
		return s, nil
	case BulkUpdateAttendance:
		st, err := attendance.ParseStatus(string(in.Status))
		if err != nil {
			return s, httperr.WrapBadRequest(err)
		}
		s.Attendance = attendance.BulkSetStatus(s.Attendance, s.SelectedDate, st, s.Roster.Employees())
		return s, nil
	case UpdatePayroll:
		e, err := s.requireEmployee(in.EmployeeID)
		if err != nil {
			return s, err
		}
		next, err := payroll.Update(s.Payroll, e.ID, s.PayrollMonth, in.Changes)
		if err != nil {
			return s, httperr.WrapNotFound(err)
		}
		s.Payroll = next
		return s, nil
	case ClearOvertime:
		e, err := s.requireEmployee(in.EmployeeID)
		if err != nil {
			return s, err
		}
		next, err := payroll.ClearOvertime(s.Payroll, e.ID, s.PayrollMonth)
		if err != nil {
			return s, httperr.WrapNotFound(err)
		}
		s.Payroll = next
		return s, nil
	case ChangeSelectedDate:
		date, err := attendance.ParseDate(in.Date)
		if err != nil {
			return s, httperr.WrapBadRequest(err)
		}
		s.SelectedDate = date
		return s, nil
	default:
		return s, httperr.WrapBadRequest(fmt.Errorf("%w: %T", ErrUnknownIntent, intent))
	}
}

// requireEmployee resolves id against the roster. Store calls must use the
// returned e.ID, which is the canonical (trimmed) key.
func (s State) requireEmployee(id string) (roster.Employee, error) {
	e, ok := s.Roster.Lookup(id)
	if !ok {
		return roster.Employee{}, httperr.WrapNotFound(fmt.Errorf("%w: %s", ErrUnknownEmployee, id))
	}
	return e, nil
}
