package space

import (
	"log/slog"
	"sync"
)

// Space is the state machine for one claimable zone of a town's map. A space
// starts public; claiming it sets a host and flips it private, disbanding
// clears everything back to public. All mutating methods hold the space mutex
// for their whole critical section, so multi-field transitions (disband in
// particular) are observed all-or-nothing by other operations.
type Space struct {
	mu sync.Mutex

	id     string
	townID string

	hostID      string
	presenterID string
	whitelist   map[string]struct{}
	occupants   map[string]struct{}

	listeners []Listener
}

// New creates a public space with the given composite ID. The ID is the
// space's only identity and is never reassigned.
func New(id, townID string) *Space {
	return &Space{
		id:        id,
		townID:    townID,
		whitelist: map[string]struct{}{},
		occupants: map[string]struct{}{},
	}
}

// ID returns the composite space ID ("{townID}_{localID}").
func (s *Space) ID() string {
	return s.id
}

// TownID returns the ID of the town the space belongs to.
func (s *Space) TownID() string {
	return s.townID
}

// IsPrivate reports whether the space currently has a host.
func (s *Space) IsPrivate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hostID != ""
}

// Host returns the current host's player ID, or "" when the space is public.
func (s *Space) Host() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hostID
}

// IsOccupant reports whether the player is currently inside the space.
func (s *Space) IsOccupant(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.occupants[playerID]
	return ok
}

// AddOccupant admits a player to the space. A player already inside is a
// no-op that still reports true. Public spaces admit anyone; private spaces
// admit only the host and whitelisted players and report false for everyone
// else. Listeners are notified only on a genuine admission.
func (s *Space) AddOccupant(playerID string) bool {
	s.mu.Lock()
	if _, ok := s.occupants[playerID]; ok {
		s.mu.Unlock()
		return true
	}

	if s.hostID != "" && playerID != s.hostID {
		if _, ok := s.whitelist[playerID]; !ok {
			s.mu.Unlock()
			return false
		}
	}

	s.occupants[playerID] = struct{}{}
	listeners := s.listenerSnapshot()
	s.mu.Unlock()

	notify(listeners, func(l Listener) { l.PlayerWalkedIn(playerID) })
	return true
}

// RemoveOccupant removes a player from the space. Removing a player who is
// not inside is a no-op and notifies nobody.
func (s *Space) RemoveOccupant(playerID string) {
	s.mu.Lock()
	if _, ok := s.occupants[playerID]; !ok {
		s.mu.Unlock()
		return
	}

	delete(s.occupants, playerID)
	listeners := s.listenerSnapshot()
	s.mu.Unlock()

	notify(listeners, func(l Listener) { l.PlayerWalkedOut(playerID) })
}

// Claim makes the player the space's host, flipping it private and seeding
// the whitelist with the host. It fails when the space is already private;
// a claimed space must be disbanded before it can be claimed again. Claiming
// does not add the host to the occupants, joining is a separate step.
func (s *Space) Claim(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hostID != "" {
		return false
	}

	s.hostID = playerID
	s.whitelist = map[string]struct{}{playerID: {}}
	return true
}

// Disband returns the space to its public state: host, presenter, and
// whitelist are cleared and every occupant is evicted. Only the current host
// may disband. Evicted players get a PlayerWalkedOut call each, followed by
// a single SpaceDisbanded call.
func (s *Space) Disband(playerID string) bool {
	s.mu.Lock()
	if s.hostID == "" || playerID != s.hostID {
		s.mu.Unlock()
		return false
	}

	evicted := sortedIDs(s.occupants)
	s.hostID = ""
	s.presenterID = ""
	s.whitelist = map[string]struct{}{}
	s.occupants = map[string]struct{}{}
	listeners := s.listenerSnapshot()
	s.mu.Unlock()

	for _, id := range evicted {
		notify(listeners, func(l Listener) { l.PlayerWalkedOut(id) })
	}
	notify(listeners, func(l Listener) { l.SpaceDisbanded() })
	return true
}

// Update applies presenter and/or whitelist changes as one transition. The
// requester must be the current host, or the space must still be hostless;
// the authority check and both writes share a single lock acquisition so a
// concurrent claim cannot land in between. A nil presenter pointer or nil
// whitelist leaves that field unchanged; a pointer to "" clears the
// presenter. The presenter is not validated against the occupant set, and
// occupants dropped from the whitelist are not evicted; eviction only
// happens on disband.
func (s *Space) Update(requesterID string, presenterID *string, whitelist []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hostID != "" && requesterID != s.hostID {
		return false
	}

	if presenterID != nil {
		s.presenterID = *presenterID
	}
	if whitelist != nil {
		wl := make(map[string]struct{}, len(whitelist))
		for _, id := range whitelist {
			wl[id] = struct{}{}
		}
		s.whitelist = wl
	}
	return true
}

// Snapshot returns an immutable copy of the space's current state.
func (s *Space) Snapshot() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Info{
		ID:           s.id,
		TownID:       s.townID,
		OccupantIDs:  sortedIDs(s.occupants),
		WhitelistIDs: sortedIDs(s.whitelist),
		HostID:       s.hostID,
		PresenterID:  s.presenterID,
	}
}

// AddListener subscribes a listener to this space's membership events.
func (s *Space) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// RemoveListener unsubscribes a listener. Removing a listener that is not
// registered is a no-op.
func (s *Space) RemoveListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, reg := range s.listeners {
		if reg == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// listenerSnapshot copies the listener slice so notification can run outside
// the lock and a listener removing itself mid-delivery cannot corrupt the
// iteration. Callers must hold s.mu.
func (s *Space) listenerSnapshot() []Listener {
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

// notify delivers an event to each listener in registration order. A
// panicking listener is logged and skipped so one dead subscriber cannot
// block delivery to the rest.
func notify(listeners []Listener, fn func(Listener)) {
	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Warn("space listener panicked", "panic", r)
				}
			}()
			fn(l)
		}()
	}
}
