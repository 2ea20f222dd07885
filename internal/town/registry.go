package town

import (
	"sync"

	"github.com/pixil98/go-town/internal/storage"
)

// Registry resolves towns and their players for the rest of the system. It
// satisfies the space store's TownResolver. Towns are built once from asset
// definitions at boot; there is no runtime town creation.
type Registry struct {
	mu    sync.RWMutex
	towns map[string]*Town
}

// NewRegistry builds a registry with one town per stored definition.
func NewRegistry(specs storage.Storer[*Spec]) *Registry {
	towns := map[string]*Town{}
	for id, spec := range specs.GetAll() {
		towns[id] = NewTown(id, spec)
	}

	return &Registry{towns: towns}
}

// Town returns the town with the given ID, or nil.
func (r *Registry) Town(townID string) *Town {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.towns[townID]
}

// Towns returns all registered towns keyed by ID.
func (r *Registry) Towns() map[string]*Town {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*Town, len(r.towns))
	for id, t := range r.towns {
		out[id] = t
	}
	return out
}

// ResolveTown reports whether the town exists.
func (r *Registry) ResolveTown(townID string) bool {
	return r.Town(townID) != nil
}

// ResolvePlayer reports whether the player is currently connected to the
// town.
func (r *Registry) ResolvePlayer(townID, playerID string) bool {
	t := r.Town(townID)
	return t != nil && t.GetPlayer(playerID) != nil
}
