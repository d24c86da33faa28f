package dashboard

import (
	"context"

	"github.com/jacksonlee411/hrops/internal/config"
	"github.com/jacksonlee411/hrops/pkg/attendance"
	"github.com/jacksonlee411/hrops/pkg/composer"
	"github.com/jacksonlee411/hrops/pkg/insights"
	"github.com/jacksonlee411/hrops/pkg/metrics"
	"github.com/jacksonlee411/hrops/pkg/payroll"
)

type Highlights struct {
	TotalEmployees         int     `json:"total_employees"`
	PresentToday           int     `json:"present_today"`
	AttendanceRate         float64 `json:"attendance_rate"`
	PayrollReadyPercentage float64 `json:"payroll_ready_percentage"`
	PendingAlerts          int     `json:"pending_alerts"`
}

type View struct {
	SelectedDate    string                  `json:"selected_date"`
	PayrollMonth    string                  `json:"payroll_month"`
	Highlights      Highlights              `json:"highlights"`
	Attendance      metrics.Attendance      `json:"attendance"`
	Payroll         metrics.Payroll         `json:"payroll"`
	Board           []attendance.BoardRow   `json:"board"`
	BoardSummary    attendance.BoardSummary `json:"board_summary"`
	PayrollRows     []payroll.Row           `json:"payroll_rows"`
	PayrollTotals   payroll.Totals          `json:"payroll_totals"`
	Insights        []insights.Insight      `json:"insights"`
	Recommendations []string                `json:"recommendations"`
	Timeline        []config.TimelineItem   `json:"timeline"`
	Composer        composer.Message        `json:"composer"`
}

// Derive computes everything the presentation layer renders from one
// snapshot. It does not touch s.
func Derive(ctx context.Context, s State, engine *insights.Engine) (View, error) {
	employees := s.Roster.Employees()
	att := metrics.DeriveAttendance(employees, s.Attendance, s.SelectedDate)
	pay := metrics.DerivePayroll(len(employees), s.Payroll, s.PayrollMonth)

	in := insights.Input{Attendance: att, Payroll: pay}
	list, err := engine.Insights(in)
	if err != nil {
		return View{}, err
	}
	recs, err := engine.Recommendations(ctx, in)
	if err != nil {
		return View{}, err
	}

	rows := payroll.Console(employees, s.Payroll, s.PayrollMonth)

	return View{
		SelectedDate: s.SelectedDate,
		PayrollMonth: s.PayrollMonth,
		Highlights: Highlights{
			TotalEmployees:         att.TotalEmployees,
			PresentToday:           att.PresentToday,
			AttendanceRate:         att.AttendanceRate,
			PayrollReadyPercentage: pay.Readiness,
			PendingAlerts:          att.Alerts,
		},
		Attendance:      att,
		Payroll:         pay,
		Board:           attendance.Board(employees, s.Attendance, s.SelectedDate),
		BoardSummary:    attendance.Summarize(employees, s.Attendance, s.SelectedDate),
		PayrollRows:     rows,
		PayrollTotals:   payroll.SumRows(rows),
		Insights:        list,
		Recommendations: recs,
		Timeline:        append([]config.TimelineItem(nil), s.Timeline...),
		Composer:        composer.Default(composerFacts(s, att, pay)),
	}, nil
}

func composerFacts(s State, att metrics.Attendance, pay metrics.Payroll) composer.Facts {
	return composer.Facts{
		PayrollMonth:          s.PayrollMonth,
		TotalEmployees:        att.TotalEmployees,
		PayrollRecordsInMonth: pay.RecordCount,
		AttendanceRate:        att.AttendanceRate,
		RemoteCount:           att.RemoteCount,
		PayrollReadiness:      pay.Readiness,
		OvertimeVariance:      pay.OvertimeVariance,
		Alerts:                att.Alerts,
	}
}
