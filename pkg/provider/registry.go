package provider

import (
	"errors"
	"sync"

	"github.com/killallgit/loom/pkg/logger"
)

// ErrNoBackend is returned when no backend has been configured or the last
// configuration attempt failed.
var ErrNoBackend = errors.New("no backend configured")

// Registry holds the single active backend and the diagnostic from the last
// failed resolution. Backends are swapped with an explicit SetBackend call;
// interested components subscribe for change notification instead of reading
// ambient global state.
type Registry struct {
	mu        sync.RWMutex
	backend   Backend
	lastError string
	observers []func(Backend)
}

func NewRegistry() *Registry {
	return &Registry{}
}

// SetBackend installs the active backend and notifies subscribers. A nil
// backend clears the registry.
func (r *Registry) SetBackend(b Backend) {
	log := logger.WithComponent("provider")

	r.mu.Lock()
	r.backend = b
	if b != nil {
		r.lastError = ""
	}
	observers := make([]func(Backend), len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	if b != nil {
		log.Info("backend configured", "backend", b.Name(), "model", b.Model())
	} else {
		log.Info("backend cleared")
	}

	for _, fn := range observers {
		fn(b)
	}
}

// SetError records a diagnostic for a failed backend resolution and clears
// the active backend.
func (r *Registry) SetError(diagnostic string) {
	r.mu.Lock()
	r.backend = nil
	r.lastError = diagnostic
	observers := make([]func(Backend), len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	logger.WithComponent("provider").Warn("backend resolution failed", "diagnostic", diagnostic)

	for _, fn := range observers {
		fn(nil)
	}
}

// Active returns the configured backend or ErrNoBackend.
func (r *Registry) Active() (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.backend == nil {
		return nil, ErrNoBackend
	}
	return r.backend, nil
}

// Diagnostic returns the last recorded resolution failure, or "" when none.
func (r *Registry) Diagnostic() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastError
}

// Subscribe registers fn to run on every backend change. The callback runs
// on the caller of SetBackend/SetError.
func (r *Registry) Subscribe(fn func(Backend)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observers = append(r.observers, fn)
}
