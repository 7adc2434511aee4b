package guard

import (
	"time"

	"github.com/Invincible1602/AyurYoga/internal/session"
)

// Decision is the outcome of evaluating one navigation attempt.
// Denial is a normal branch, not an error: the guard never fails.
type Decision struct {
	Allowed bool
	// RedirectTo is the login destination when denied
	RedirectTo string
}

// Config holds guard destinations
type Config struct {
	// LoginPath is where denied navigations are sent
	LoginPath string
	// LandingPath is the default destination after login when no
	// pending destination exists
	LandingPath string
}

// Guard gates navigation to protected destinations and restores the
// originally requested destination after authentication. It owns the
// PendingDestination records; they are not router state.
type Guard struct {
	pending PendingStore
	cfg     Config

	now func() time.Time
}

// New creates a Guard over the given pending store
func New(pending PendingStore, cfg Config) *Guard {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = "/"
	}
	return &Guard{
		pending: pending,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Evaluate decides one navigation attempt to a protected destination.
// It receives the attempted path and the identity snapshot taken at the
// moment of entry; a non-nil identity allows the render, a nil identity
// records the path as the visit's pending destination and redirects to
// login. Every protected navigation is evaluated fresh.
func (g *Guard) Evaluate(visitID, path string, identity *session.Claims) Decision {
	if identity != nil {
		return Decision{Allowed: true}
	}

	g.pending.Put(visitID, PendingDestination{
		Path:       path,
		RecordedAt: g.now(),
	})
	return Decision{RedirectTo: g.cfg.LoginPath}
}

// Resume returns where the visitor should land after a successful login:
// the visit's pending destination if one was recorded, consumed exactly
// once, otherwise the default landing destination.
func (g *Guard) Resume(visitID string) string {
	if dest, ok := g.pending.Take(visitID); ok {
		return dest.Path
	}
	return g.cfg.LandingPath
}

// LoginPath returns the configured login destination
func (g *Guard) LoginPath() string {
	return g.cfg.LoginPath
}
