package space

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrTownNotFound   = errors.New("town not found")
	ErrDuplicateSpace = errors.New("duplicate space id")
)

// TownResolver is the slice of the town registry the store needs: existence
// checks for towns at space creation and for players at join time.
type TownResolver interface {
	ResolveTown(townID string) bool
	ResolvePlayer(townID, playerID string) bool
}

// Store indexes every space in the process and is the single entry point
// request handlers mutate space state through. Creation is an administrative
// operation and fails loudly; the player-facing operations are total
// functions returning booleans and sentinels, never errors, so handlers can
// always produce a structured response for untrusted input.
type Store struct {
	mu    sync.RWMutex
	towns TownResolver

	spaces map[string]*Space
}

// NewStore creates an empty store backed by the given town resolver.
func NewStore(towns TownResolver) *Store {
	return &Store{
		towns:  towns,
		spaces: map[string]*Space{},
	}
}

// CreateSpace constructs and indexes a new public space with the composite
// ID "{townID}_{localID}". It returns ErrTownNotFound when the town does not
// resolve and ErrDuplicateSpace when the ID is already taken; both indicate
// a map configuration bug, not a client mistake.
func (st *Store) CreateSpace(localID, townID string) (*Space, error) {
	if !st.towns.ResolveTown(townID) {
		return nil, fmt.Errorf("creating space %q: %w: %q", localID, ErrTownNotFound, townID)
	}

	id := fmt.Sprintf("%s_%s", townID, localID)

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.spaces[id]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSpace, id)
	}

	s := New(id, townID)
	st.spaces[id] = s
	return s, nil
}

// GetSpace returns the space with the given composite ID, or nil.
func (st *Store) GetSpace(spaceID string) *Space {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.spaces[spaceID]
}

// GetSpaceForPlayer returns the snapshot of the space currently containing
// the player. A player is in at most one space; a player in none gets the
// World sentinel snapshot.
func (st *Store) GetSpaceForPlayer(playerID string) Info {
	st.mu.RLock()
	defer st.mu.RUnlock()

	for _, s := range st.spaces {
		if s.IsOccupant(playerID) {
			return s.Snapshot()
		}
	}
	return WorldInfo()
}

// JoinSpace admits the player to the space. It reports false when the space
// does not exist, the player does not resolve in the space's town, or the
// space is private and the player is not admitted.
func (st *Store) JoinSpace(playerID, spaceID string) bool {
	s := st.GetSpace(spaceID)
	if s == nil {
		return false
	}
	if !st.towns.ResolvePlayer(s.TownID(), playerID) {
		return false
	}
	return s.AddOccupant(playerID)
}

// LeaveSpace removes the player from the space. Unknown players and spaces
// are no-ops.
func (st *Store) LeaveSpace(playerID, spaceID string) {
	s := st.GetSpace(spaceID)
	if s == nil {
		return
	}
	s.RemoveOccupant(playerID)
}

// ClaimSpace makes the player the space's host. There is no authorization at
// this layer: claiming is first come, first served.
func (st *Store) ClaimSpace(spaceID, playerID string) bool {
	s := st.GetSpace(spaceID)
	if s == nil {
		return false
	}
	return s.Claim(playerID)
}

// UpdateSpace applies the provided presenter and/or whitelist updates. Host
// authority is enforced inside the space, atomically with the writes: the
// requester must be the current host, or the space must have no host yet.
// On authorization failure nothing is applied. A nil pointer/slice means
// "leave unchanged"; a pointer to "" clears the presenter.
func (st *Store) UpdateSpace(spaceID, requestingPlayerID string, presenterID *string, whitelist []string) bool {
	s := st.GetSpace(spaceID)
	if s == nil {
		return false
	}
	return s.Update(requestingPlayerID, presenterID, whitelist)
}

// DisbandSpace returns the space to public. Host-only; the boolean is false
// for unknown spaces and non-host requesters alike.
func (st *Store) DisbandSpace(spaceID, requestingPlayerID string) bool {
	s := st.GetSpace(spaceID)
	if s == nil {
		return false
	}
	return s.Disband(requestingPlayerID)
}

// RemoveFromAllSpaces removes the player from any space containing them.
// Called when a player disconnects from their town so stale occupancy does
// not accumulate.
func (st *Store) RemoveFromAllSpaces(playerID string) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	for _, s := range st.spaces {
		s.RemoveOccupant(playerID)
	}
}

// ListSpaces returns a snapshot of every indexed space.
func (st *Store) ListSpaces() []Info {
	st.mu.RLock()
	defer st.mu.RUnlock()

	infos := make([]Info, 0, len(st.spaces))
	for _, s := range st.spaces {
		infos = append(infos, s.Snapshot())
	}
	return infos
}
