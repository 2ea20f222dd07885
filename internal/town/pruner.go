package town

import (
	"context"
	"log/slog"
	"time"
)

// SpaceMembership is the slice of the space store the pruner needs to clean
// up after a disconnected player.
type SpaceMembership interface {
	RemoveFromAllSpaces(playerID string)
}

// IdlePruner disconnects players who have gone quiet. Each tick it walks
// every town, removes players idle past the timeout from any space they were
// in, then drops them from the town.
type IdlePruner struct {
	registry *Registry
	spaces   SpaceMembership
	timeout  time.Duration
}

// NewIdlePruner creates a pruner over the registry's towns.
func NewIdlePruner(registry *Registry, spaces SpaceMembership, timeout time.Duration) *IdlePruner {
	return &IdlePruner{
		registry: registry,
		spaces:   spaces,
		timeout:  timeout,
	}
}

// Tick evicts idle players. Satisfies driver.Manager.
func (p *IdlePruner) Tick(ctx context.Context) error {
	for townID, t := range p.registry.Towns() {
		for _, playerID := range t.IdlePlayers(p.timeout) {
			p.spaces.RemoveFromAllSpaces(playerID)
			t.RemovePlayer(playerID)
			slog.InfoContext(ctx, "pruned idle player", "town", townID, "player", playerID)
		}
	}
	return nil
}
