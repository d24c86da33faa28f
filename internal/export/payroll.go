package export

import (
	"fmt"
	"io"

	"github.com/jacksonlee411/hrops/pkg/payroll"
	"github.com/xuri/excelize/v2"
)

const PayrollSheet = "Payroll"

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var payrollHeader = []any{
	"Employee ID", "Name", "Department", "Month", "Status",
	"Base Salary", "Overtime Hours", "Overtime Pay", "Deductions", "Net Pay",
}

// PayrollFilename is the download name for month's workbook.
func PayrollFilename(month string) string {
	return "payroll-" + month + ".xlsx"
}

// WritePayrollXLSX writes one row per roster employee followed by a totals
// row. Employees without a record for month are listed with status
// "missing" and empty amounts; records with no positive net pay are
// "pending".
func WritePayrollXLSX(w io.Writer, month string, rows []payroll.Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", PayrollSheet); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := setRow(f, 1, payrollHeader); err != nil {
		return err
	}

	for i, row := range rows {
		values := []any{row.Employee.ID, row.Employee.Name, row.Employee.Department, month}
		if row.Record == nil {
			values = append(values, "missing")
		} else {
			r := row.Record
			values = append(values, recordStatus(*r), r.BaseSalary, r.OvertimeHours, r.OvertimePay, r.Deductions, r.NetPay)
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}

	t := payroll.SumRows(rows)
	totals := []any{"Total", "", "", month, "", t.Base, "", t.Overtime, t.Deductions, t.Net}
	if err := setRow(f, len(rows)+2, totals); err != nil {
		return err
	}

	if err := f.SetColWidth(PayrollSheet, "A", "J", 16); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// recordStatus labels a record ready only when it pays out, matching the
// payroll readiness KPI.
func recordStatus(r payroll.Record) string {
	if r.NetPay > 0 {
		return "ready"
	}
	return "pending"
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetSheetRow(PayrollSheet, cell, &values); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}
