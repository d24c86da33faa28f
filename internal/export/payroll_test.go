package export

import (
	"bytes"
	"testing"

	"github.com/jacksonlee411/hrops/pkg/payroll"
	"github.com/jacksonlee411/hrops/pkg/roster"
	"github.com/xuri/excelize/v2"
)

func TestWritePayrollXLSX(t *testing.T) {
	rec := payroll.Recompute(payroll.Record{EmployeeID: "e1", Month: "2024-05", BaseSalary: 3200, OvertimeHours: 2, Deductions: 200}, payroll.Changes{})
	overdrawn := payroll.Recompute(payroll.Record{EmployeeID: "e3", Month: "2024-05", BaseSalary: 1000, Deductions: 1200}, payroll.Changes{})
	rows := []payroll.Row{
		{Employee: roster.Employee{ID: "e1", Name: "Ava", Department: "Ops"}, Record: &rec},
		{Employee: roster.Employee{ID: "e2", Name: "Ben", Department: "Ops"}},
		{Employee: roster.Employee{ID: "e3", Name: "Cy", Department: "Ops"}, Record: &overdrawn},
	}

	var buf bytes.Buffer
	if err := WritePayrollXLSX(&buf, "2024-05", rows); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(PayrollSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("rows=%v", got)
	}
	if got[0][0] != "Employee ID" || got[0][9] != "Net Pay" {
		t.Fatalf("header=%v", got[0])
	}
	// 3200/160 = 20 per hour
	if got[1][4] != "ready" || got[1][7] != "40" || got[1][9] != "3040" {
		t.Fatalf("row=%v", got[1])
	}
	if got[2][1] != "Ben" || got[2][4] != "missing" || len(got[2]) != 5 {
		t.Fatalf("row=%v", got[2])
	}
	if got[3][4] != "pending" || got[3][9] != "-200" {
		t.Fatalf("row=%v", got[3])
	}
	if got[4][0] != "Total" || got[4][9] != "2840" {
		t.Fatalf("totals=%v", got[4])
	}
}

func TestPayrollFilename(t *testing.T) {
	if got := PayrollFilename("2024-05"); got != "payroll-2024-05.xlsx" {
		t.Fatalf("got=%q", got)
	}
}
