package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jacksonlee411/hrops/pkg/attendance"
	"github.com/jacksonlee411/hrops/pkg/insights"
	"github.com/jacksonlee411/hrops/pkg/payroll"
	"github.com/jacksonlee411/hrops/pkg/roster"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

var ErrUnknownEmployee = errors.New("config: record references unknown employee")

type TimelineStatus string

const (
	TimelineDone       TimelineStatus = "done"
	TimelineInProgress TimelineStatus = "in-progress"
	TimelinePending    TimelineStatus = "pending"
)

type TimelineItem struct {
	Time        string         `json:"time" yaml:"time"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Owner       string         `json:"owner" yaml:"owner"`
	Status      TimelineStatus `json:"status" yaml:"status"`
}

type File struct {
	Version      int                 `yaml:"version"`
	PayrollMonth string              `yaml:"payroll_month"`
	TrackingDate string              `yaml:"tracking_date"`
	Thresholds   insights.Thresholds `yaml:"thresholds"`
	Employees    []roster.Employee   `yaml:"employees"`
	Attendance   []attendance.Record `yaml:"attendance"`
	Payroll      []payroll.Record    `yaml:"payroll"`
	Timeline     []TimelineItem      `yaml:"timeline"`
}

type Config struct {
	PayrollMonth string
	TrackingDate string
	Thresholds   insights.Thresholds
	Roster       roster.Roster
	Attendance   attendance.Store
	Payroll      payroll.Store
	Timeline     []TimelineItem
}

func SampleYAML() []byte {
	return append([]byte(nil), sampleYAML...)
}

// Load reads path, or the embedded sample data when path is empty.
func Load(path string, now time.Time) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Parse(sampleYAML, now)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b, now)
}

// Parse validates the file and builds the stores. A missing tracking_date
// falls back to the latest seeded attendance date, then to now (UTC).
func Parse(b []byte, now time.Time) (Config, error) {
	f := File{Thresholds: insights.DefaultThresholds()}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Config{}, err
	}
	if f.Version != 1 {
		return Config{}, errors.New("config: unsupported version")
	}

	month, err := payroll.ParseMonth(f.PayrollMonth)
	if err != nil {
		return Config{}, fmt.Errorf("config: payroll_month: %w", err)
	}

	r, err := roster.New(f.Employees)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	for _, rec := range f.Attendance {
		if !r.Contains(rec.EmployeeID) {
			return Config{}, fmt.Errorf("%w: attendance employee_id=%s", ErrUnknownEmployee, rec.EmployeeID)
		}
	}
	att, err := attendance.NewStore(f.Attendance...)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	for _, rec := range f.Payroll {
		if !r.Contains(rec.EmployeeID) {
			return Config{}, fmt.Errorf("%w: payroll employee_id=%s", ErrUnknownEmployee, rec.EmployeeID)
		}
	}
	pay, err := payroll.NewStore(f.Payroll...)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	for i, item := range f.Timeline {
		switch item.Status {
		case TimelineDone, TimelineInProgress, TimelinePending:
		default:
			return Config{}, fmt.Errorf("config: timeline %d: invalid status %q", i+1, item.Status)
		}
	}

	trackingDate := strings.TrimSpace(f.TrackingDate)
	switch {
	case trackingDate != "":
		trackingDate, err = attendance.ParseDate(trackingDate)
		if err != nil {
			return Config{}, fmt.Errorf("config: tracking_date: %w", err)
		}
	default:
		if latest, ok := att.LatestDate(); ok {
			trackingDate = latest
		} else {
			trackingDate = now.UTC().Format(attendance.DateLayout)
		}
	}

	return Config{
		PayrollMonth: month,
		TrackingDate: trackingDate,
		Thresholds:   f.Thresholds,
		Roster:       r,
		Attendance:   att,
		Payroll:      pay,
		Timeline:     f.Timeline,
	}, nil
}

func GetenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
