package attendance

import "github.com/jacksonlee411/hrops/pkg/roster"

type BoardRow struct {
	Employee roster.Employee `json:"employee"`
	Status   Status          `json:"status"`
	Notes    string          `json:"notes,omitempty"`
	Recorded bool            `json:"recorded"`
}

type BoardSummary struct {
	Counts            map[Status]int `json:"counts"`
	ProductivityScore float64        `json:"productivity_score"`
}

// Board joins the roster with the records for date, one row per employee.
func Board(employees []roster.Employee, s Store, date string) []BoardRow {
	rows := make([]BoardRow, 0, len(employees))
	for _, e := range employees {
		row := BoardRow{Employee: e, Status: StatusAbsent}
		if r, ok := s.Lookup(e.ID, date); ok {
			row.Status = r.Status
			row.Notes = r.Notes
			row.Recorded = true
		}
		rows = append(rows, row)
	}
	return rows
}

// Summarize counts explicit records only; unrecorded rows are not tallied as
// Absent here, unlike the dashboard KPIs.
func Summarize(employees []roster.Employee, s Store, date string) BoardSummary {
	counts := make(map[Status]int, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	rows := Board(employees, s, date)
	for _, row := range rows {
		if row.Recorded {
			counts[row.Status]++
		}
	}
	total := len(rows)
	if total == 0 {
		total = 1
	}
	score := (float64(counts[StatusPresent]) + float64(counts[StatusRemote])*0.9) / float64(total) * 100
	return BoardSummary{Counts: counts, ProductivityScore: score}
}
