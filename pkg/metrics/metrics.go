// Package metrics derives the dashboard KPIs from roster and record
// snapshots. Every function is pure.
package metrics

import (
	"github.com/jacksonlee411/hrops/pkg/attendance"
	"github.com/jacksonlee411/hrops/pkg/payroll"
	"github.com/jacksonlee411/hrops/pkg/roster"
	"github.com/shopspring/decimal"
)

const (
	remoteAttendanceWeight   = 0.85
	remoteProductivityWeight = 0.9
)

type Attendance struct {
	TotalEmployees int     `json:"total_employees"`
	PresentToday   int     `json:"present_today"`
	PresentCount   int     `json:"present_count"`
	RemoteCount    int     `json:"remote_count"`
	LeaveCount     int     `json:"leave_count"`
	AbsentCount    int     `json:"absent_count"`
	AttendanceRate float64 `json:"attendance_rate"`
	Productivity   float64 `json:"productivity"`
	Alerts         int     `json:"alerts"`
}

type Payroll struct {
	Readiness        float64 `json:"readiness"`
	OvertimeVariance float64 `json:"overtime_variance"`
	NetPayroll       float64 `json:"net_payroll"`
	RecordCount      int     `json:"record_count"`
	ReadyCount       int     `json:"ready_count"`
}

// DeriveAttendance tallies the roster for date; an employee without a record
// counts as absent.
func DeriveAttendance(employees []roster.Employee, s attendance.Store, date string) Attendance {
	out := Attendance{TotalEmployees: len(employees)}
	for _, e := range employees {
		switch s.StatusOf(e.ID, date) {
		case attendance.StatusPresent:
			out.PresentCount++
		case attendance.StatusRemote:
			out.RemoteCount++
		case attendance.StatusLeave:
			out.LeaveCount++
		default:
			out.AbsentCount++
		}
	}

	total := float64(denominator(len(employees)))
	present := float64(out.PresentCount)
	remote := float64(out.RemoteCount)

	out.PresentToday = out.PresentCount + out.RemoteCount
	out.AttendanceRate = (present + remote*remoteAttendanceWeight) / total * 100
	out.Productivity = (present + remote*remoteProductivityWeight) / total * 100
	out.Alerts = max(0, out.LeaveCount+out.AbsentCount-1)
	return out
}

// DerivePayroll aggregates month's records. Readiness is measured against the
// whole roster, not against the records present.
func DerivePayroll(totalEmployees int, s payroll.Store, month string) Payroll {
	records := s.ForMonth(month)
	out := Payroll{RecordCount: len(records)}

	var hours, net decimal.Decimal
	for _, r := range records {
		if r.NetPay > 0 {
			out.ReadyCount++
		}
		hours = hours.Add(decimal.NewFromFloat(r.OvertimeHours))
		net = net.Add(decimal.NewFromFloat(r.NetPay))
	}

	out.Readiness = float64(out.ReadyCount) / float64(denominator(totalEmployees)) * 100
	out.OvertimeVariance = hours.InexactFloat64() / float64(denominator(len(records)))
	out.NetPayroll = net.InexactFloat64()
	return out
}

func denominator(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
