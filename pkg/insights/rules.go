package insights

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/jacksonlee411/hrops/pkg/metrics"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Insight struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type Thresholds struct {
	AttendanceTarget       float64 `json:"attendance_target" yaml:"attendance_target"`
	PayrollReadinessTarget float64 `json:"payroll_readiness_target" yaml:"payroll_readiness_target"`
	OvertimeSpikeHours     float64 `json:"overtime_spike_hours" yaml:"overtime_spike_hours"`
	ProductivityTarget     float64 `json:"productivity_target" yaml:"productivity_target"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		AttendanceTarget:       94,
		PayrollReadinessTarget: 95,
		OvertimeSpikeHours:     6,
		ProductivityTarget:     90,
	}
}

type Input struct {
	Attendance metrics.Attendance
	Payroll    metrics.Payroll
}

// Rule appends one insight when When evaluates to true. When is a CEL
// expression over the kpi and limits maps.
type Rule struct {
	ID       string
	When     string
	Severity Severity
	Title    string
	Describe func(Input) string
}

// DefaultRules is evaluated in order; complementary pairs stand in for the
// if/else branches of the attendance and payroll checks.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:       "attendance_dip",
			When:     "kpi.attendance_rate < limits.attendance_target",
			Severity: SeverityMedium,
			Title:    "Attendance dip vs. target",
			Describe: func(in Input) string {
				return fmt.Sprintf("Attendance efficiency tracking at %s%%. Investigate remote compliance and PTO overlaps in Customer Success team.", FormatFixed(in.Attendance.AttendanceRate, 1))
			},
		},
		{
			ID:       "attendance_stable",
			When:     "kpi.attendance_rate >= limits.attendance_target",
			Severity: SeverityLow,
			Title:    "Attendance stable",
			Describe: func(in Input) string {
				return fmt.Sprintf("Team operating at %s%% attendance coverage. Auto-escalations remain off.", FormatFixed(in.Attendance.AttendanceRate, 1))
			},
		},
		{
			ID:       "payroll_readiness_low",
			When:     "kpi.payroll_readiness < limits.payroll_readiness_target",
			Severity: SeverityHigh,
			Title:    "Payroll readiness below threshold",
			Describe: func(in Input) string {
				return fmt.Sprintf("%s%% of employees still pending approvals. Target follow-ups with managers today to avoid Friday overtime.", FormatFixed(100-in.Payroll.Readiness, 1))
			},
		},
		{
			ID:       "payroll_validated",
			When:     "kpi.payroll_readiness >= limits.payroll_readiness_target",
			Severity: SeverityLow,
			Title:    "Payroll packets validated",
			Describe: func(in Input) string {
				return fmt.Sprintf("Projected disbursement %s is ready for treasury handoff.", FormatUSD(in.Payroll.NetPayroll))
			},
		},
		{
			ID:       "overtime_spike",
			When:     "kpi.overtime_variance > limits.overtime_spike_hours",
			Severity: SeverityMedium,
			Title:    "Spike in overtime",
			Describe: func(in Input) string {
				return fmt.Sprintf("Average overtime hours at %sh. Agent recommends QA on approvals in Engineering and Finance squads.", FormatFixed(in.Payroll.OvertimeVariance, 1))
			},
		},
		{
			ID:       "coverage_gaps",
			When:     "kpi.alerts > 0.0",
			Severity: SeverityMedium,
			Title:    "Action needed: coverage gaps",
			Describe: func(in Input) string {
				return fmt.Sprintf("There are %d prioritized absences/leave requiring backfill planning.", in.Attendance.Alerts)
			},
		},
	}
}

var newRulesCELEnv = func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("kpi", cel.MapType(cel.StringType, cel.DoubleType)),
		cel.Variable("limits", cel.MapType(cel.StringType, cel.DoubleType)),
	)
}

var ruleProgramCache sync.Map

func compileCondition(expr string) (cel.Program, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("insights: expression required")
	}
	if cached, ok := ruleProgramCache.Load(expr); ok {
		return cached.(cel.Program), nil
	}
	env, err := newRulesCELEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.New("insights: expression output type mismatch")
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	ruleProgramCache.Store(expr, program)
	return program, nil
}

func kpiVars(in Input) map[string]any {
	return map[string]any{
		"attendance_rate":   in.Attendance.AttendanceRate,
		"productivity":      in.Attendance.Productivity,
		"present_today":     float64(in.Attendance.PresentToday),
		"alerts":            float64(in.Attendance.Alerts),
		"payroll_readiness": in.Payroll.Readiness,
		"overtime_variance": in.Payroll.OvertimeVariance,
		"net_payroll":       in.Payroll.NetPayroll,
	}
}

func limitVars(t Thresholds) map[string]any {
	return map[string]any{
		"attendance_target":        t.AttendanceTarget,
		"payroll_readiness_target": t.PayrollReadinessTarget,
		"overtime_spike_hours":     t.OvertimeSpikeHours,
		"productivity_target":      t.ProductivityTarget,
	}
}
