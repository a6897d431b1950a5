package generate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hauspek/reportkit/observability"
)

// Listener receives the final byte stream and filename after each
// successful generation. Listener failures never roll back or invalidate
// the artifact.
type Listener func(data []byte, filename string)

// ListenerRegistry is a small registry of save listeners keyed by id, so
// several documents edited at once cannot trample a single global
// callback slot.
type ListenerRegistry struct {
	mu        sync.Mutex
	listeners map[string]Listener
	logger    observability.Logger
}

// NewListenerRegistry creates an empty registry.
func NewListenerRegistry(logger observability.Logger) *ListenerRegistry {
	return &ListenerRegistry{
		listeners: make(map[string]Listener),
		logger:    logger,
	}
}

// Register adds a listener and returns its id.
func (r *ListenerRegistry) Register(l Listener) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.listeners[id] = l
	r.mu.Unlock()
	return id
}

// Unregister removes a listener. Unknown ids are ignored, so calling
// twice is harmless.
func (r *ListenerRegistry) Unregister(id string) {
	r.mu.Lock()
	delete(r.listeners, id)
	r.mu.Unlock()
}

// Notify invokes every listener best-effort. Panics are caught and
// logged, never propagated to the generation path.
func (r *ListenerRegistry) Notify(data []byte, filename string) {
	r.mu.Lock()
	snapshot := make([]Listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		snapshot = append(snapshot, l)
	}
	r.mu.Unlock()

	for _, l := range snapshot {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error("save listener panicked",
						observability.String("filename", filename))
				}
			}()
			l(data, filename)
		}()
	}
}
