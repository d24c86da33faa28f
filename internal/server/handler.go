package server

import (
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"

	"github.com/jacksonlee411/hrops/internal/dashboard"
	"github.com/jacksonlee411/hrops/internal/routing"
	"go.uber.org/zap"
)

//go:embed allowlist.yaml
var embeddedAllowlist []byte

func NewHandler(c *dashboard.Container) (http.Handler, error) {
	return NewHandlerWithOptions(HandlerOptions{Container: c})
}

type HandlerOptions struct {
	Container *dashboard.Container
	Logger    *zap.Logger
	// AllowlistPath overrides the embedded allowlist; ALLOWLIST_PATH is
	// consulted when empty.
	AllowlistPath string
}

func NewHandlerWithOptions(opts HandlerOptions) (http.Handler, error) {
	c := opts.Container
	if c == nil {
		return nil, errors.New("server: container required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	a, err := loadAllowlist(opts.AllowlistPath)
	if err != nil {
		return nil, err
	}
	classifier, err := routing.NewClassifier(a, "server")
	if err != nil {
		return nil, err
	}

	router := routing.NewRouter(classifier, logger)

	router.Handle(routing.RouteClassOps, http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		routing.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	router.Handle(routing.RouteClassAPI, http.MethodGet, "/api/dashboard", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleDashboard(w, r, c)
	}))
	router.Handle(routing.RouteClassAPI, http.MethodGet, "/api/attendance", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleAttendanceBoard(w, r, c)
	}))
	router.Handle(routing.RouteClassAPI, http.MethodPost, "/api/attendance/bulk", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleBulkAttendance(w, r, c)
	}))
	router.Handle(routing.RouteClassAPI, http.MethodPost, "/api/attendance/{employee_id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleUpdateAttendance(w, r, c)
	}))

	router.Handle(routing.RouteClassDownload, http.MethodGet, "/api/payroll/export.xlsx", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlePayrollExport(w, r, c)
	}))
	router.Handle(routing.RouteClassAPI, http.MethodPost, "/api/payroll/{employee_id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleUpdatePayroll(w, r, c)
	}))
	router.Handle(routing.RouteClassAPI, http.MethodPost, "/api/payroll/{employee_id}/clear-overtime", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleClearOvertime(w, r, c)
	}))

	router.Handle(routing.RouteClassAPI, http.MethodPut, "/api/selected-date", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleSelectedDate(w, r, c)
	}))
	router.Handle(routing.RouteClassAPI, http.MethodGet, "/api/composer", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleComposer(w, r, c)
	}))
	router.Handle(routing.RouteClassAPI, http.MethodPost, "/api/composer/copy", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleComposerCopy(w, r, c)
	}))
	router.Handle(routing.RouteClassAPI, http.MethodGet, "/api/events", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		routing.WriteJSON(w, http.StatusOK, eventsResponse{Events: c.Events()})
	}))

	if err := checkRoutes(a, router); err != nil {
		return nil, err
	}
	return routing.AccessLog(logger, router), nil
}

func loadAllowlist(path string) (routing.Allowlist, error) {
	if path == "" {
		path = os.Getenv("ALLOWLIST_PATH")
	}
	if path == "" {
		return routing.ParseAllowlistYAML(embeddedAllowlist)
	}
	return routing.LoadAllowlist(path)
}

// checkRoutes fails when a registered route is missing from the allowlist
// or an allowlisted route has no handler.
func checkRoutes(a routing.Allowlist, router *routing.Router) error {
	allowed := a.Keys("server")
	registered := router.Keys()
	for _, k := range registered {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("server: route %q not in allowlist", k)
		}
	}
	for _, k := range allowed {
		if !slices.Contains(registered, k) {
			return fmt.Errorf("server: allowlisted route %q has no handler", k)
		}
	}
	return nil
}
