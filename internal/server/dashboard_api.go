package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/jacksonlee411/hrops/internal/dashboard"
	"github.com/jacksonlee411/hrops/internal/export"
	"github.com/jacksonlee411/hrops/internal/routing"
	"github.com/jacksonlee411/hrops/pkg/attendance"
	"github.com/jacksonlee411/hrops/pkg/composer"
	"github.com/jacksonlee411/hrops/pkg/httperr"
	"github.com/jacksonlee411/hrops/pkg/payroll"
)

const maxBodyBytes = 64 << 10

type mutationResponse struct {
	Event     dashboard.Event `json:"event"`
	Dashboard dashboard.View  `json:"dashboard"`
}

type attendanceBoardResponse struct {
	Date    string                  `json:"date"`
	Rows    []attendance.BoardRow   `json:"rows"`
	Summary attendance.BoardSummary `json:"summary"`
}

type eventsResponse struct {
	Events []dashboard.Event `json:"events"`
}

type copyResponse struct {
	Copied bool `json:"copied"`
}

func handleDashboard(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	v, err := c.View(r.Context())
	if err != nil {
		routing.WriteHTTPError(w, r, routing.RouteClassAPI, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, v)
}

func handleAttendanceBoard(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	s := c.State()
	date := s.SelectedDate
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		d, err := attendance.ParseDate(raw)
		if err != nil {
			routing.WriteHTTPError(w, r, routing.RouteClassAPI, httperr.WrapBadRequest(err))
			return
		}
		date = d
	}

	employees := s.Roster.Employees()
	routing.WriteJSON(w, http.StatusOK, attendanceBoardResponse{
		Date:    date,
		Rows:    attendance.Board(employees, s.Attendance, date),
		Summary: attendance.Summarize(employees, s.Attendance, date),
	})
}

func handleBulkAttendance(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	dispatch(w, r, c, dashboard.BulkUpdateAttendance{Status: attendance.Status(req.Status)})
}

func handleUpdateAttendance(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	var req struct {
		Status *string `json:"status"`
		Notes  *string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	intent := dashboard.UpdateAttendance{
		EmployeeID: routing.PathParam(r, "employee_id"),
		Notes:      req.Notes,
	}
	if req.Status != nil {
		st := attendance.Status(*req.Status)
		intent.Status = &st
	}
	dispatch(w, r, c, intent)
}

func handleUpdatePayroll(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	var req struct {
		OvertimeHours json.RawMessage `json:"overtime_hours"`
		Deductions    json.RawMessage `json:"deductions"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	dispatch(w, r, c, dashboard.UpdatePayroll{
		EmployeeID: routing.PathParam(r, "employee_id"),
		Changes: payroll.Changes{
			OvertimeHours: optionalNumber(req.OvertimeHours),
			Deductions:    optionalNumber(req.Deductions),
		},
	})
}

func handleClearOvertime(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	dispatch(w, r, c, dashboard.ClearOvertime{EmployeeID: routing.PathParam(r, "employee_id")})
}

func handleSelectedDate(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	var req struct {
		Date string `json:"date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	dispatch(w, r, c, dashboard.ChangeSelectedDate{Date: req.Date})
}

func handlePayrollExport(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	s := c.State()
	rows := payroll.Console(s.Roster.Employees(), s.Payroll, s.PayrollMonth)

	var buf bytes.Buffer
	if err := export.WritePayrollXLSX(&buf, s.PayrollMonth, rows); err != nil {
		routing.WriteHTTPError(w, r, routing.RouteClassDownload, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.PayrollFilename(s.PayrollMonth)}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func handleComposer(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	v, err := c.View(r.Context())
	if err != nil {
		routing.WriteHTTPError(w, r, routing.RouteClassAPI, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, v.Composer)
}

// handleComposerCopy copies the posted draft; omitted fields fall back to the
// generated defaults. A clipboard failure is reported as copied=false.
func handleComposerCopy(w http.ResponseWriter, r *http.Request, c *dashboard.Container) {
	var req struct {
		Subject *string `json:"subject"`
		Body    *string `json:"body"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	var m composer.Message
	if req.Subject == nil || req.Body == nil {
		v, err := c.View(r.Context())
		if err != nil {
			routing.WriteHTTPError(w, r, routing.RouteClassAPI, err)
			return
		}
		m = v.Composer
	}
	if req.Subject != nil {
		m.Subject = *req.Subject
	}
	if req.Body != nil {
		m.Body = *req.Body
	}
	routing.WriteJSON(w, http.StatusOK, copyResponse{Copied: c.CopyToClipboard(m)})
}

func dispatch(w http.ResponseWriter, r *http.Request, c *dashboard.Container, intent dashboard.Intent) {
	ev, v, err := c.DispatchView(r.Context(), intent)
	if err != nil {
		routing.WriteHTTPError(w, r, routing.RouteClassAPI, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, mutationResponse{Event: ev, Dashboard: v})
}

// decodeBody decodes a JSON object into dst. An empty body leaves dst as is.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			routing.WriteError(w, r, routing.RouteClassAPI, http.StatusUnsupportedMediaType, "unsupported_media_type", "")
			return false
		}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		routing.WriteHTTPError(w, r, routing.RouteClassAPI, httperr.NewBadRequest("invalid json body: "+err.Error()))
		return false
	}
	return true
}

// optionalNumber reads a JSON number or numeric string. Anything else,
// including null, booleans and unparsable strings, is treated as absent.
func optionalNumber(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
