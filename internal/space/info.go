package space

import "sort"

// WorldSpaceID is the sentinel space ID meaning "not in any private space".
// Clients key off this value, so it is part of the wire contract.
const WorldSpaceID = "World"

// Info is an immutable snapshot of a space's state. It holds copies of the
// occupant and whitelist sets, never live references.
type Info struct {
	ID           string
	TownID       string
	OccupantIDs  []string
	WhitelistIDs []string
	HostID       string
	PresenterID  string
}

// WorldInfo returns the sentinel snapshot for a player who is in no space:
// the "World" ID with empty occupant and whitelist sets and no host or
// presenter.
func WorldInfo() Info {
	return Info{
		ID:           WorldSpaceID,
		OccupantIDs:  []string{},
		WhitelistIDs: []string{},
	}
}

// sortedIDs copies a string set into a sorted slice. Snapshots sort their
// members so output is deterministic for callers and tests.
func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
