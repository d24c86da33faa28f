package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jacksonlee411/hrops/pkg/composer"
	"github.com/jacksonlee411/hrops/pkg/insights"
	"go.uber.org/zap"
)

const maxEvents = 50

type Event struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	EmployeeID string    `json:"employee_id,omitempty"`
	At         time.Time `json:"at"`
}

// Container owns the current State. Dispatch swaps in a whole new snapshot,
// so readers never observe a partially applied intent.
type Container struct {
	mu     sync.RWMutex
	state  State
	events []Event

	engine    *insights.Engine
	clipboard composer.Clipboard
	logger    *zap.Logger
	now       func() time.Time
	newID     func() (uuid.UUID, error)
}

type Option func(*Container)

func WithLogger(l *zap.Logger) Option {
	return func(c *Container) { c.logger = l }
}

func WithClipboard(cb composer.Clipboard) Option {
	return func(c *Container) { c.clipboard = cb }
}

func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

func NewContainer(initial State, engine *insights.Engine, opts ...Option) *Container {
	c := &Container{
		state:  initial,
		engine: engine,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewV7,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Container) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Event(nil), c.events...)
}

func (c *Container) Dispatch(ctx context.Context, intent Intent) (Event, error) {
	ev, _, err := c.apply(intent)
	return ev, err
}

// DispatchView applies intent and derives the view from the exact snapshot
// it produced, unaffected by intents dispatched afterwards.
func (c *Container) DispatchView(ctx context.Context, intent Intent) (Event, View, error) {
	ev, next, err := c.apply(intent)
	if err != nil {
		return Event{}, View{}, err
	}
	v, err := Derive(ctx, next, c.engine)
	if err != nil {
		return Event{}, View{}, err
	}
	return ev, v, nil
}

func (c *Container) apply(intent Intent) (Event, State, error) {
	id, err := c.newID()
	if err != nil {
		return Event{}, State{}, err
	}

	c.mu.Lock()
	next, err := Reduce(c.state, intent)
	if err != nil {
		c.mu.Unlock()
		c.logger.Info("intent rejected", zap.String("kind", intent.Kind()), zap.Error(err))
		return Event{}, State{}, err
	}
	c.state = next
	ev := Event{
		ID:         id.String(),
		Kind:       intent.Kind(),
		EmployeeID: intentEmployee(intent),
		At:         c.now().UTC(),
	}
	c.events = append(c.events, ev)
	if len(c.events) > maxEvents {
		c.events = append([]Event(nil), c.events[len(c.events)-maxEvents:]...)
	}
	c.mu.Unlock()

	c.logger.Debug("intent applied",
		zap.String("event_id", ev.ID),
		zap.String("kind", ev.Kind),
		zap.String("employee_id", ev.EmployeeID),
	)
	return ev, next, nil
}

func (c *Container) View(ctx context.Context) (View, error) {
	return Derive(ctx, c.State(), c.engine)
}

// CopyToClipboard is fire-and-forget; see composer.Copy.
func (c *Container) CopyToClipboard(m composer.Message) bool {
	return composer.Copy(c.clipboard, c.logger, m)
}

func intentEmployee(intent Intent) string {
	switch in := intent.(type) {
	case UpdateAttendance:
		return strings.TrimSpace(in.EmployeeID)
	case UpdatePayroll:
		return strings.TrimSpace(in.EmployeeID)
	case ClearOvertime:
		return strings.TrimSpace(in.EmployeeID)
	default:
		return ""
	}
}
