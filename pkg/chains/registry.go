package chains

import (
	"fmt"
	"sync"
)

// Registry manages chain descriptors registered by the host application.
// Connectors snapshot it into a List at construction time.
type Registry struct {
	chains map[int64]Chain
	mu     sync.RWMutex
}

var (
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
)

// InitGlobalRegistry initializes the global chain registry
func InitGlobalRegistry() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = &Registry{
			chains: make(map[int64]Chain),
		}
	})
	return globalRegistry
}

// GetGlobalRegistry returns the global chain registry (returns nil if not initialized)
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// NewRegistry creates an empty standalone registry.
func NewRegistry() *Registry {
	return &Registry{chains: make(map[int64]Chain)}
}

// Register registers a chain descriptor keyed by its ID.
// If a descriptor already exists for the ID, it will be replaced (idempotent).
func (r *Registry) Register(chain Chain) error {
	if chain.ID <= 0 {
		return fmt.Errorf("invalid chain id: %d", chain.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.chains[chain.ID] = chain
	return nil
}

// Get retrieves a chain descriptor by ID.
func (r *Registry) Get(chainID int64) (Chain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain, exists := r.chains[chainID]
	if !exists {
		return Chain{}, fmt.Errorf("no chain registered for id: %d", chainID)
	}

	return chain, nil
}

// Contains checks if a chain ID is registered.
func (r *Registry) Contains(chainID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.chains[chainID]
	return exists
}

// IDs returns all registered chain IDs.
func (r *Registry) IDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot returns the registered descriptors as an immutable List.
func (r *Registry) Snapshot() List {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make(List, 0, len(r.chains))
	for _, chain := range r.chains {
		list = append(list, chain)
	}
	return list
}

// Unregister removes a chain descriptor (useful for testing)
func (r *Registry) Unregister(chainID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.chains, chainID)
}

// ResetGlobalRegistry resets the global registry (useful for testing)
func ResetGlobalRegistry() {
	globalRegistry = nil
	globalRegistryOnce = sync.Once{}
}
