package town

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

// Spec is a town definition loaded from asset files. SpaceZones lists the
// local IDs of the claimable space zones declared on the town's map; the
// space store creates one space per entry at boot.
type Spec struct {
	FriendlyName string   `json:"friendly_name"`
	SpaceZones   []string `json:"space_zones,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (s *Spec) Validate() error {
	el := errors.NewErrorList()

	if s.FriendlyName == "" {
		el.Add(fmt.Errorf("friendly_name is required"))
	}

	seen := map[string]bool{}
	for i, z := range s.SpaceZones {
		if z == "" {
			el.Add(fmt.Errorf("space zone %d: id is required", i))
			continue
		}
		if seen[z] {
			el.Add(fmt.Errorf("space zone %d: duplicate id %q", i, z))
		}
		seen[z] = true
	}

	return el.Err()
}

// playerState pairs a Player with its session bookkeeping.
type playerState struct {
	player       *Player
	token        string
	lastActivity time.Time
}

// Town holds the authoritative set of players currently connected to one
// town. It owns player lifecycle; the space layer only references players
// by ID through the registry.
type Town struct {
	mu sync.RWMutex

	id           string
	friendlyName string
	spaceZones   []string

	players map[string]*playerState

	// now is swapped out by tests that exercise idle pruning.
	now func() time.Time
}

// NewTown creates an empty town from its definition.
func NewTown(id string, spec *Spec) *Town {
	zones := make([]string, len(spec.SpaceZones))
	copy(zones, spec.SpaceZones)

	return &Town{
		id:           id,
		friendlyName: spec.FriendlyName,
		spaceZones:   zones,
		players:      map[string]*playerState{},
		now:          time.Now,
	}
}

// ID returns the town's identifier.
func (t *Town) ID() string {
	return t.id
}

// FriendlyName returns the town's display name.
func (t *Town) FriendlyName() string {
	return t.friendlyName
}

// SpaceZones returns the local space zone IDs declared on the town's map.
func (t *Town) SpaceZones() []string {
	zones := make([]string, len(t.spaceZones))
	copy(zones, t.spaceZones)
	return zones
}

// AddPlayer connects a new player to the town, minting a player ID and a
// session token.
func (t *Town) AddPlayer(name string) *Session {
	p := &Player{
		ID:   uuid.NewString(),
		Name: name,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.players[p.ID] = &playerState{
		player:       p,
		token:        uuid.NewString(),
		lastActivity: t.now(),
	}

	return &Session{Player: p, Token: t.players[p.ID].token}
}

// RemovePlayer disconnects a player. Unknown players are a no-op.
func (t *Town) RemovePlayer(playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.players, playerID)
}

// GetPlayer returns the connected player with the given ID, or nil.
func (t *Town) GetPlayer(playerID string) *Player {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ps, ok := t.players[playerID]
	if !ok {
		return nil
	}
	return ps.player
}

// ValidSession reports whether the token matches the one issued to the
// player when they joined.
func (t *Town) ValidSession(playerID, token string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ps, ok := t.players[playerID]
	return ok && ps.token == token
}

// UpdateLocation moves a player and refreshes their activity timer.
func (t *Town) UpdateLocation(playerID string, loc Location) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ps, ok := t.players[playerID]; ok {
		ps.player.Location = loc
		ps.lastActivity = t.now()
	}
}

// MarkActive refreshes a player's activity timer.
func (t *Town) MarkActive(playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ps, ok := t.players[playerID]; ok {
		ps.lastActivity = t.now()
	}
}

// Players returns the IDs of all connected players.
func (t *Town) Players() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.players))
	for id := range t.players {
		ids = append(ids, id)
	}
	return ids
}

// IdlePlayers returns the IDs of players whose last activity is older than
// the timeout.
func (t *Town) IdlePlayers(timeout time.Duration) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := t.now().Add(-timeout)
	var ids []string
	for id, ps := range t.players {
		if ps.lastActivity.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}
