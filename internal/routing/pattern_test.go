package routing

import "testing"

func TestParsePathPattern(t *testing.T) {
	t.Parallel()

	invalid := []string{
		"/health",
		"no-leading-slash",
		"{no-leading-slash-but-has-brace}",
		"/a/{id",
		"/a/{}/b",
		"/a/{id}x/b",
		"/a/id}/b",
		"/a//{id}/b",
	}
	for _, raw := range invalid {
		if _, ok := parsePathPattern(raw); ok {
			t.Fatalf("expected invalid: %q", raw)
		}
	}

	p, ok := parsePathPattern("/a/{id}/b")
	if !ok {
		t.Fatal("expected ok")
	}
	if (PathPattern{}).Match("/a/x/b") {
		t.Fatal("expected zero-value to not match")
	}
	if !p.Match("/a/x/b") {
		t.Fatal("expected match")
	}
	for _, path := range []string{"/a/x/c", "/a/x", "/a//b"} {
		if p.Match(path) {
			t.Fatalf("expected no match: %q", path)
		}
	}
}

func TestPathPattern_Extract(t *testing.T) {
	t.Parallel()

	p, ok := parsePathPattern("/api/payroll/{employee_id}/clear-overtime")
	if !ok {
		t.Fatal("expected ok")
	}
	params, ok := p.Extract("/api/payroll/emp-004/clear-overtime")
	if !ok || params["employee_id"] != "emp-004" {
		t.Fatalf("params=%v ok=%v", params, ok)
	}
	if _, ok := p.Extract("/api/payroll/emp-004"); ok {
		t.Fatal("expected no match")
	}
}

func TestSplitPathSegments(t *testing.T) {
	t.Parallel()

	if got := splitPathSegments("/"); got != nil {
		t.Fatalf("got=%v", got)
	}
	got := splitPathSegments("/a/b")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got=%v", got)
	}
}
