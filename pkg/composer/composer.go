package composer

import (
	"fmt"
	"math"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/jacksonlee411/hrops/pkg/insights"
	"go.uber.org/zap"
)

// Facts is what the finance status message reports on.
type Facts struct {
	PayrollMonth          string
	TotalEmployees        int
	PayrollRecordsInMonth int
	AttendanceRate        float64
	RemoteCount           int
	PayrollReadiness      float64
	OvertimeVariance      float64
	Alerts                int
}

type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func DefaultSubject(month string) string {
	return "Attendance & Payroll Status — " + month
}

// PendingApprovals estimates approvals still open against a 95% target.
func PendingApprovals(totalEmployees int, recordsInMonth int) int {
	v := math.Floor(float64(totalEmployees)*0.95 - float64(recordsInMonth) + 0.5)
	return max(0, int(v))
}

func DefaultBody(f Facts) string {
	var b strings.Builder
	b.WriteString("Hi Finance Team,\n\n")
	fmt.Fprintf(&b, "Attendance coverage sits at %s%% with remote utilization of %d team members. ", insights.FormatFixed(f.AttendanceRate, 1), f.RemoteCount)
	fmt.Fprintf(&b, "Payroll readiness for %s is currently at %s%% and %sh average overtime.\n\n", f.PayrollMonth, insights.FormatFixed(f.PayrollReadiness, 1), insights.FormatFixed(f.OvertimeVariance, 1))
	b.WriteString("Key follow-ups:\n")
	fmt.Fprintf(&b, "• Resolve %d open attendance gaps before 3PM.\n", f.Alerts)
	fmt.Fprintf(&b, "• Close remaining payroll approvals (est. %d) to stay on track for Friday funding.\n", PendingApprovals(f.TotalEmployees, f.PayrollRecordsInMonth))
	b.WriteString("• Review overtime detail for Engineering & Finance squads.\n\n")
	b.WriteString("Let me know if you need deeper dives.\n\n")
	b.WriteString("Thanks,\nHR Automation Agent")
	return b.String()
}

func Default(f Facts) Message {
	return Message{Subject: DefaultSubject(f.PayrollMonth), Body: DefaultBody(f)}
}

func ClipboardText(m Message) string {
	return "Subject: " + m.Subject + "\n\n" + m.Body
}

type Clipboard interface {
	WriteAll(text string) error
}

type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Copy writes m to cb. A failure is logged and reported as false; it never
// interrupts the caller.
func Copy(cb Clipboard, logger *zap.Logger, m Message) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cb == nil {
		logger.Warn("clipboard error", zap.String("reason", "clipboard not configured"))
		return false
	}
	if err := cb.WriteAll(ClipboardText(m)); err != nil {
		logger.Warn("clipboard error", zap.Error(err))
		return false
	}
	return true
}
