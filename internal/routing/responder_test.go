package routing

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jacksonlee411/hrops/pkg/httperr"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var body ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, rec.Body.String())
	}
	return body
}

func TestWriteError_AcceptJSONCharset(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Accept", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()

	WriteError(rec, req, RouteClassOps, http.StatusNotFound, "not_found", "not found")
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("content-type=%q", rec.Header().Get("Content-Type"))
	}
}

func TestWriteError_OpsPlainText(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, RouteClassOps, http.StatusNotFound, "not_found", "")
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("content-type=%q", rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != "not found\n" {
		t.Fatalf("body=%q", rec.Body.String())
	}
}

func TestTraceIDFromRequest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		traceparent string
		want        string
	}{
		{name: "empty", traceparent: "", want: ""},
		{name: "malformed segments", traceparent: "00-abc-01", want: ""},
		{name: "invalid chars", traceparent: "00-0123456789abcdef0123456789abcdeg-0123456789abcdef-01", want: ""},
		{name: "all zero trace", traceparent: "00-00000000000000000000000000000000-0123456789abcdef-01", want: ""},
		{name: "valid", traceparent: "00-ABCDEFABCDEFABCDEFABCDEFABCDEFAB-0123456789abcdef-01", want: "abcdefabcdefabcdefabcdefabcdefab"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.traceparent != "" {
				req.Header.Set("traceparent", tc.traceparent)
			}
			if got := traceIDFromRequest(req); got != tc.want {
				t.Fatalf("traceIDFromRequest()=%q want %q", got, tc.want)
			}
		})
	}
}

func TestWriteError_Envelope(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/attendance/bulk", nil)
	req.Header.Set("traceparent", "00-0123456789abcdef0123456789abcdef-0123456789abcdef-01")
	rec := httptest.NewRecorder()

	WriteError(rec, req, RouteClassAPI, http.StatusBadRequest, "bad_request", "")

	body := decodeEnvelope(t, rec)
	if body.TraceID != "0123456789abcdef0123456789abcdef" {
		t.Fatalf("trace_id=%q", body.TraceID)
	}
	if body.Message != "bad request" {
		t.Fatalf("message=%q", body.Message)
	}
	if body.Meta.Path != "/api/attendance/bulk" || body.Meta.Method != http.MethodPost {
		t.Fatalf("meta=%+v", body.Meta)
	}
}

func TestWriteError_UnknownCodeFallsBackToStatusText(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	rec := httptest.NewRecorder()
	WriteError(rec, req, RouteClassAPI, http.StatusConflict, "conflict", "")
	if body := decodeEnvelope(t, rec); body.Message != "Conflict" {
		t.Fatalf("message=%q", body.Message)
	}
}

func TestWriteHTTPError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"bad request", httperr.NewBadRequest("status required"), http.StatusBadRequest, "bad_request", "status required"},
		{"not found", httperr.WrapNotFound(errors.New("no record")), http.StatusNotFound, "not_found", "no record"},
		{"internal hides detail", errors.New("policy eval: secret"), http.StatusInternalServerError, "internal_error", "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			rec := httptest.NewRecorder()
			WriteHTTPError(rec, req, RouteClassAPI, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status=%d", rec.Code)
			}
			body := decodeEnvelope(t, rec)
			if body.Code != tc.code || body.Message != tc.message {
				t.Fatalf("body=%+v", body)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]bool{"copied": true})
	if rec.Code != http.StatusCreated || !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("status=%d content-type=%q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if strings.TrimSpace(rec.Body.String()) != `{"copied":true}` {
		t.Fatalf("body=%q", rec.Body.String())
	}
}

func TestErrorCatalog(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"bad_request", "not_found", "method_not_allowed", "unsupported_media_type", "internal_error"} {
		if _, ok := LookupCode(code); !ok {
			t.Fatalf("catalog missing %q", code)
		}
	}
	if _, err := parseErrorCatalog([]byte("version: 2")); err == nil {
		t.Fatal("expected version error")
	}
	if _, err := parseErrorCatalog([]byte("version: 1\nerrors: [{code: x, status: 200}]")); err == nil {
		t.Fatal("expected status error")
	}
	if _, err := parseErrorCatalog([]byte("version: 1\nerrors: [{code: x, status: 400}, {code: x, status: 404}]")); err == nil {
		t.Fatal("expected duplicate error")
	}
}
