package gateway

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Registry maps gateway names to instances. It is populated once at process
// start and injected wherever a gateway lookup is needed; lookups after
// startup are deterministic and side-effect-free.
type Registry struct {
	mu       sync.RWMutex
	gateways map[string]PaymentGateway
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		gateways: make(map[string]PaymentGateway),
		logger:   logger,
	}
}

// Register adds a gateway under name. Re-registering the same name
// overwrites the previous instance with a warning; last write wins.
func (r *Registry) Register(name string, gw PaymentGateway) {
	key := normalize(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.gateways[key]; exists {
		r.logger.Warn("gateway already registered, overwriting", "gateway", key)
	}
	r.gateways[key] = gw
}

// Get returns the gateway registered under name, or a CONFIGURATION_ERROR
// if the name was never registered.
func (r *Registry) Get(name string) (PaymentGateway, error) {
	key := normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	gw, ok := r.gateways[key]
	if !ok {
		return nil, &PaymentError{
			Kind:    KindConfigurationError,
			Message: fmt.Sprintf("payment gateway %q not found", name),
		}
	}
	return gw, nil
}

// Names returns the registered gateway names, for startup logging.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
