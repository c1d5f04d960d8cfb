package optimistic

import (
	"context"

	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// ErrToggleInFlight is returned when a toggle is attempted while the previous
// request for the same key has not completed.
var ErrToggleInFlight = apperrors.NewConflictError("Please wait for the previous action to finish.")

// LoginRequiredMessage is shown when an anonymous user tries to toggle a relation
const LoginRequiredMessage = "You must log in to do that."

// Relation describes a boolean relation between the current user and an item of type T,
// such as "liked" or "followed".
type Relation[T any] struct {
	Name      string
	SubjectID func(T) string
	// Holds reports whether userID is currently related to the item.
	Holds func(item T, userID string) bool
	// Count is the displayed counter for the relation; nil means uncounted.
	Count  func(T) int
	Add    func(ctx context.Context, subjectID string) error
	Remove func(ctx context.Context, subjectID string) error
}

// Members builds a Holds func from an id array such as likes or followers
func Members[T any](ids func(T) []string) func(T, string) bool {
	return func(item T, userID string) bool {
		if userID == "" {
			return false
		}
		for _, id := range ids(item) {
			if id == userID {
				return true
			}
		}
		return false
	}
}

// Controller carries what every toggle needs from its surrounding view
type Controller struct {
	session  providers.SessionProvider
	notifier providers.Notifier
	registry *Registry
	metrics  *observability.Metrics
	alive    func() bool
}

// Option configures a Controller
type Option func(*Controller)

// WithRegistry shares single-flight state with other controllers
func WithRegistry(r *Registry) Option {
	return func(c *Controller) {
		c.registry = r
	}
}

// WithMetrics records toggle outcomes
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithAlive sets the liveness check consulted before applying a late completion
func WithAlive(alive func() bool) Option {
	return func(c *Controller) {
		c.alive = alive
	}
}

// NewController creates a controller
func NewController(session providers.SessionProvider, notifier providers.Notifier, opts ...Option) *Controller {
	c := &Controller{
		session:  session,
		notifier: notifier,
		alive:    func() bool { return true },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = NewRegistry()
	}
	if c.notifier == nil {
		c.notifier = providers.NotifierFunc(func(providers.Level, string) {})
	}
	return c
}

// Registry returns the controller's single-flight registry
func (c *Controller) Registry() *Registry {
	return c.registry
}

// Bind creates the toggle for item as seen by userID
func (r Relation[T]) Bind(c *Controller, item T, userID string) *Toggle {
	state := State{On: r.Holds(item, userID)}
	if r.Count != nil {
		state.Count = r.Count(item)
	}
	return &Toggle{
		c:         c,
		relation:  r.Name,
		subjectID: r.SubjectID(item),
		userID:    userID,
		add:       r.Add,
		remove:    r.Remove,
		counted:   r.Count != nil,
		state:     state,
	}
}
