package payroll

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jacksonlee411/hrops/pkg/roster"
	"github.com/shopspring/decimal"
)

const (
	MonthLayout = "2006-01"

	// StandardMonthlyHours is the divisor turning a monthly base salary into
	// an hourly overtime rate.
	StandardMonthlyHours = 160
)

var (
	ErrRecordNotFound  = errors.New("payroll: record not found")
	ErrDuplicateRecord = errors.New("payroll: duplicate record")
	ErrInvalidMonth    = errors.New("payroll: invalid month")
	ErrInvalidAmount   = errors.New("payroll: invalid amount")
)

func ParseMonth(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(MonthLayout, raw); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
	}
	return raw, nil
}

type Record struct {
	EmployeeID    string  `json:"employee_id" yaml:"employee_id"`
	Month         string  `json:"month" yaml:"month"`
	BaseSalary    float64 `json:"base_salary" yaml:"base_salary"`
	OvertimeHours float64 `json:"overtime_hours" yaml:"overtime_hours"`
	OvertimePay   float64 `json:"overtime_pay" yaml:"-"`
	Deductions    float64 `json:"deductions" yaml:"deductions"`
	NetPay        float64 `json:"net_pay" yaml:"-"`
}

func (r Record) HourlyRate() float64 {
	return decimal.NewFromFloat(r.BaseSalary).Div(decimal.NewFromInt(StandardMonthlyHours)).InexactFloat64()
}

// Changes is a partial update; nil fields keep their current value.
type Changes struct {
	OvertimeHours *float64
	Deductions    *float64
}

// Recompute applies changes and rederives OvertimePay and NetPay. Negative
// inputs clamp to zero; NaN and infinities leave the current value in place.
func Recompute(r Record, changes Changes) Record {
	r.OvertimeHours = resolveAmount(changes.OvertimeHours, r.OvertimeHours)
	r.Deductions = resolveAmount(changes.Deductions, r.Deductions)

	base := decimal.NewFromFloat(r.BaseSalary)
	hourly := base.Div(decimal.NewFromInt(StandardMonthlyHours))
	overtimePay := roundCents(decimal.NewFromFloat(r.OvertimeHours).Mul(hourly))
	netPay := roundCents(base.Add(overtimePay).Sub(decimal.NewFromFloat(r.Deductions)))

	r.OvertimePay = overtimePay.InexactFloat64()
	r.NetPay = netPay.InexactFloat64()
	return r
}

var half = decimal.NewFromFloat(0.5)

// roundCents rounds to two decimals with ties toward positive infinity, so
// a negative net pay of -0.015 becomes -0.01.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}

func resolveAmount(next *float64, current float64) float64 {
	if next == nil {
		return current
	}
	v := *next
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return current
	}
	if v < 0 {
		return 0
	}
	return v
}

type key struct {
	employeeID string
	month      string
}

// Store is an immutable snapshot keyed by (employee, month).
type Store struct {
	records []Record
	index   map[key]int
}

// NewStore normalizes every record through Recompute so the derived fields
// always agree with hours and deductions.
func NewStore(records ...Record) (Store, error) {
	s := Store{
		records: make([]Record, 0, len(records)),
		index:   make(map[key]int, len(records)),
	}
	for i, r := range records {
		r.EmployeeID = strings.TrimSpace(r.EmployeeID)
		month, err := ParseMonth(r.Month)
		if err != nil {
			return Store{}, fmt.Errorf("record %d: %w", i+1, err)
		}
		r.Month = month
		if r.BaseSalary < 0 || math.IsNaN(r.BaseSalary) || math.IsInf(r.BaseSalary, 0) {
			return Store{}, fmt.Errorf("record %d: %w: base_salary=%v", i+1, ErrInvalidAmount, r.BaseSalary)
		}
		k := key{r.EmployeeID, r.Month}
		if _, ok := s.index[k]; ok {
			return Store{}, fmt.Errorf("%w: employee=%s month=%s", ErrDuplicateRecord, r.EmployeeID, r.Month)
		}
		hours, deductions := r.OvertimeHours, r.Deductions
		r = Recompute(r, Changes{OvertimeHours: &hours, Deductions: &deductions})
		s.index[k] = len(s.records)
		s.records = append(s.records, r)
	}
	return s, nil
}

func (s Store) Len() int { return len(s.records) }

func (s Store) Records() []Record {
	return append([]Record(nil), s.records...)
}

func (s Store) Lookup(employeeID string, month string) (Record, bool) {
	i, ok := s.index[key{employeeID, month}]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

func (s Store) ForMonth(month string) []Record {
	var out []Record
	for _, r := range s.records {
		if r.Month == month {
			out = append(out, r)
		}
	}
	return out
}

// Update is update-only: a missing key yields ErrRecordNotFound and the
// original store.
func Update(s Store, employeeID string, month string, changes Changes) (Store, error) {
	i, ok := s.index[key{employeeID, month}]
	if !ok {
		return s, fmt.Errorf("%w: employee=%s month=%s", ErrRecordNotFound, employeeID, month)
	}
	out := Store{
		records: append([]Record(nil), s.records...),
		index:   s.index,
	}
	out.records[i] = Recompute(out.records[i], changes)
	return out, nil
}

// ClearOvertime zeroes overtime hours and keeps deductions.
func ClearOvertime(s Store, employeeID string, month string) (Store, error) {
	zero := 0.0
	return Update(s, employeeID, month, Changes{OvertimeHours: &zero})
}

type Row struct {
	Employee roster.Employee `json:"employee"`
	Record   *Record         `json:"record,omitempty"`
}

type Totals struct {
	Base       float64 `json:"base"`
	Overtime   float64 `json:"overtime"`
	Deductions float64 `json:"deductions"`
	Net        float64 `json:"net"`
}

// Console joins the roster with month's records, one row per employee.
func Console(employees []roster.Employee, s Store, month string) []Row {
	rows := make([]Row, 0, len(employees))
	for _, e := range employees {
		row := Row{Employee: e}
		if r, ok := s.Lookup(e.ID, month); ok {
			row.Record = &r
		}
		rows = append(rows, row)
	}
	return rows
}

// SumRows totals only rows that carry a record.
func SumRows(rows []Row) Totals {
	var base, overtime, deductions, net decimal.Decimal
	for _, row := range rows {
		if row.Record == nil {
			continue
		}
		base = base.Add(decimal.NewFromFloat(row.Record.BaseSalary))
		overtime = overtime.Add(decimal.NewFromFloat(row.Record.OvertimePay))
		deductions = deductions.Add(decimal.NewFromFloat(row.Record.Deductions))
		net = net.Add(decimal.NewFromFloat(row.Record.NetPay))
	}
	return Totals{
		Base:       base.InexactFloat64(),
		Overtime:   overtime.InexactFloat64(),
		Deductions: deductions.InexactFloat64(),
		Net:        net.InexactFloat64(),
	}
}
