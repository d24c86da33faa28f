package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jacksonlee411/hrops/internal/config"
	"github.com/jacksonlee411/hrops/internal/dashboard"
	"github.com/jacksonlee411/hrops/internal/export"
	"github.com/jacksonlee411/hrops/pkg/composer"
	"github.com/jacksonlee411/hrops/pkg/insights"
	"github.com/jacksonlee411/hrops/pkg/payroll"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type app struct {
	configPath string
	date       string
	logLevel   string

	logger    *zap.Logger
	clipboard composer.Clipboard
	now       func() time.Time
}

func newApp(cb composer.Clipboard) *app {
	return &app{
		logger:    zap.NewNop(),
		clipboard: cb,
		now:       time.Now,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "hropsctl",
		Short:         "Attendance and payroll operations from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newConsoleLogger(a.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("HROPS_CONFIG"), "dashboard config file (embedded sample when empty)")
	root.PersistentFlags().StringVar(&a.date, "date", "", "tracking date YYYY-MM-DD (defaults to the config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", config.GetenvDefault("LOG_LEVEL", "warn"), "log level")

	root.AddCommand(newReportCmd(a), newComposeCmd(a), newExportPayrollCmd(a))
	return root
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print KPIs, insights and recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			v, err := c.View(cmd.Context())
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newComposeCmd(a *app) *cobra.Command {
	var copyToClipboard bool
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print the finance status message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			v, err := c.View(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), composer.ClipboardText(v.Composer))
			if !copyToClipboard {
				return nil
			}
			if c.CopyToClipboard(v.Composer) {
				fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "clipboard unavailable; message printed above")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "also copy the message to the system clipboard")
	return cmd
}

func newExportPayrollCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-payroll",
		Short: "Write the payroll console as an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			s := c.State()
			if out == "" {
				out = export.PayrollFilename(s.PayrollMonth)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			rows := payroll.Console(s.Roster.Employees(), s.Payroll, s.PayrollMonth)
			if err := export.WritePayrollXLSX(f, s.PayrollMonth, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Info("payroll exported", zap.String("path", out), zap.Int("rows", len(rows)))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default payroll-<month>.xlsx)")
	return cmd
}

func (a *app) container(ctx context.Context) (*dashboard.Container, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(a.configPath, a.now())
	if err != nil {
		return nil, err
	}
	engine, err := insights.NewEngine(ctx, cfg.Thresholds)
	if err != nil {
		return nil, err
	}
	c := dashboard.NewContainer(dashboard.StateFromConfig(cfg), engine,
		dashboard.WithLogger(a.logger),
		dashboard.WithClipboard(a.clipboard),
		dashboard.WithClock(a.now),
	)
	if a.date != "" {
		if _, err := c.Dispatch(ctx, dashboard.ChangeSelectedDate{Date: a.date}); err != nil {
			return nil, fmt.Errorf("--date: %w", err)
		}
	}
	return c, nil
}

func writeReport(w io.Writer, v dashboard.View) {
	fmt.Fprintf(w, "HR Ops report for %s (payroll %s)\n\n", v.SelectedDate, v.PayrollMonth)
	fmt.Fprintf(w, "Employees:          %d\n", v.Highlights.TotalEmployees)
	fmt.Fprintf(w, "Present today:      %d\n", v.Highlights.PresentToday)
	fmt.Fprintf(w, "Attendance rate:    %s%%\n", insights.FormatFixed(v.Highlights.AttendanceRate, 1))
	fmt.Fprintf(w, "Productivity:       %s%%\n", insights.FormatFixed(v.Attendance.Productivity, 1))
	fmt.Fprintf(w, "Payroll readiness:  %s%%\n", insights.FormatFixed(v.Highlights.PayrollReadyPercentage, 1))
	fmt.Fprintf(w, "Overtime variance:  %sh\n", insights.FormatFixed(v.Payroll.OvertimeVariance, 1))
	fmt.Fprintf(w, "Net payroll:        %s\n", insights.FormatUSD(v.Payroll.NetPayroll))
	fmt.Fprintf(w, "Open alerts:        %d\n", v.Highlights.PendingAlerts)

	fmt.Fprintln(w, "\nInsights:")
	for _, in := range v.Insights {
		fmt.Fprintf(w, "  [%s] %s: %s\n", in.Severity, in.Title, in.Description)
	}
	fmt.Fprintln(w, "\nRecommendations:")
	for _, r := range v.Recommendations {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}

func newConsoleLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
