package space

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

// fakeResolver is a TownResolver with fixed towns and players.
type fakeResolver struct {
	towns   map[string]bool
	players map[string]bool // key "{townID}/{playerID}"
}

func newFakeResolver(townIDs []string, players map[string][]string) *fakeResolver {
	r := &fakeResolver{
		towns:   map[string]bool{},
		players: map[string]bool{},
	}
	for _, id := range townIDs {
		r.towns[id] = true
	}
	for townID, ids := range players {
		for _, id := range ids {
			r.players[townID+"/"+id] = true
		}
	}
	return r
}

func (r *fakeResolver) ResolveTown(townID string) bool {
	return r.towns[townID]
}

func (r *fakeResolver) ResolvePlayer(townID, playerID string) bool {
	return r.players[townID+"/"+playerID]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st := NewStore(newFakeResolver(
		[]string{"town1"},
		map[string][]string{"town1": {"alice", "bob", "carol"}},
	))
	_, err := st.CreateSpace("1", "town1")
	if err != nil {
		t.Fatalf("unexpected error creating space: %v", err)
	}
	return st
}

func TestStore_CreateSpace(t *testing.T) {
	tests := map[string]struct {
		localID string
		townID  string
		expErr  error
	}{
		"valid space": {
			localID: "2",
			townID:  "town1",
		},
		"unknown town": {
			localID: "1",
			townID:  "nowhere",
			expErr:  ErrTownNotFound,
		},
		"duplicate id": {
			localID: "1",
			townID:  "town1",
			expErr:  ErrDuplicateSpace,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			st := newTestStore(t)

			s, err := st.CreateSpace(tt.localID, tt.townID)

			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "composite id", s.ID(), tt.townID+"_"+tt.localID)
			testutil.AssertEqual(t, "starts public", s.IsPrivate(), false)
			if st.GetSpace(s.ID()) != s {
				t.Error("space not indexed")
			}
		})
	}
}

func TestStore_GetSpace_Unknown(t *testing.T) {
	st := newTestStore(t)

	if st.GetSpace("town1_99") != nil {
		t.Error("expected nil for unknown space")
	}
}

func TestStore_JoinSpace(t *testing.T) {
	tests := map[string]struct {
		setup    func(st *Store)
		playerID string
		spaceID  string
		exp      bool
	}{
		"public space admits known player": {
			setup:    func(st *Store) {},
			playerID: "alice",
			spaceID:  "town1_1",
			exp:      true,
		},
		"unknown player": {
			setup:    func(st *Store) {},
			playerID: "mallory",
			spaceID:  "town1_1",
			exp:      false,
		},
		"unknown space": {
			setup:    func(st *Store) {},
			playerID: "alice",
			spaceID:  "town1_99",
			exp:      false,
		},
		"private space rejects unlisted player": {
			setup: func(st *Store) {
				st.ClaimSpace("town1_1", "alice")
			},
			playerID: "bob",
			spaceID:  "town1_1",
			exp:      false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			st := newTestStore(t)
			tt.setup(st)

			testutil.AssertEqual(t, "joined", st.JoinSpace(tt.playerID, tt.spaceID), tt.exp)
		})
	}
}

func TestStore_LeaveSpace_TotalOverInputs(t *testing.T) {
	st := newTestStore(t)
	st.JoinSpace("alice", "town1_1")

	// None of these may panic
	st.LeaveSpace("alice", "town1_99")
	st.LeaveSpace("mallory", "town1_1")
	st.LeaveSpace("alice", "town1_1")

	testutil.AssertEqual(t, "alice gone", st.GetSpaceForPlayer("alice").ID, WorldSpaceID)
}

func TestStore_GetSpaceForPlayer(t *testing.T) {
	st := newTestStore(t)

	// Unaffiliated player gets the World sentinel
	info := st.GetSpaceForPlayer("alice")
	testutil.AssertEqual(t, "sentinel id", info.ID, WorldSpaceID)
	testutil.AssertEqual(t, "sentinel occupants", len(info.OccupantIDs), 0)
	testutil.AssertEqual(t, "sentinel whitelist", len(info.WhitelistIDs), 0)
	testutil.AssertEqual(t, "sentinel host", info.HostID, "")
	testutil.AssertEqual(t, "sentinel presenter", info.PresenterID, "")

	st.JoinSpace("alice", "town1_1")

	info = st.GetSpaceForPlayer("alice")
	testutil.AssertEqual(t, "space id", info.ID, "town1_1")
}

func TestStore_UpdateSpace_HostAuthority(t *testing.T) {
	presenter := "bob"

	tests := map[string]struct {
		setup     func(st *Store)
		requester string
		exp       bool
	}{
		"host may update": {
			setup: func(st *Store) {
				st.ClaimSpace("town1_1", "alice")
			},
			requester: "alice",
			exp:       true,
		},
		"non-host may not update": {
			setup: func(st *Store) {
				st.ClaimSpace("town1_1", "alice")
			},
			requester: "bob",
			exp:       false,
		},
		"hostless space permits bootstrap": {
			setup:     func(st *Store) {},
			requester: "bob",
			exp:       true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			st := newTestStore(t)
			tt.setup(st)

			got := st.UpdateSpace("town1_1", tt.requester, &presenter, []string{"alice", "bob"})

			testutil.AssertEqual(t, "updated", got, tt.exp)

			snap := st.GetSpace("town1_1").Snapshot()
			if tt.exp {
				testutil.AssertEqual(t, "presenter applied", snap.PresenterID, "bob")
				testutil.AssertEqual(t, "whitelist applied", len(snap.WhitelistIDs), 2)
			} else {
				// No partial application on rejection
				testutil.AssertEqual(t, "presenter unchanged", snap.PresenterID, "")
				testutil.AssertEqual(t, "whitelist unchanged", len(snap.WhitelistIDs), 1)
			}
		})
	}
}

func TestStore_UpdateSpace_PartialUpdates(t *testing.T) {
	st := newTestStore(t)
	st.ClaimSpace("town1_1", "alice")

	// Whitelist only
	testutil.AssertEqual(t, "whitelist update",
		st.UpdateSpace("town1_1", "alice", nil, []string{"alice", "bob"}), true)
	snap := st.GetSpace("town1_1").Snapshot()
	testutil.AssertEqual(t, "presenter untouched", snap.PresenterID, "")
	testutil.AssertEqual(t, "whitelist size", len(snap.WhitelistIDs), 2)

	// Presenter only
	presenter := "bob"
	testutil.AssertEqual(t, "presenter update",
		st.UpdateSpace("town1_1", "alice", &presenter, nil), true)
	snap = st.GetSpace("town1_1").Snapshot()
	testutil.AssertEqual(t, "presenter set", snap.PresenterID, "bob")
	testutil.AssertEqual(t, "whitelist untouched", len(snap.WhitelistIDs), 2)

	// Explicit empty presenter clears
	empty := ""
	testutil.AssertEqual(t, "presenter clear",
		st.UpdateSpace("town1_1", "alice", &empty, nil), true)
	testutil.AssertEqual(t, "presenter cleared",
		st.GetSpace("town1_1").Snapshot().PresenterID, "")
}

func TestStore_DisbandSpace(t *testing.T) {
	st := newTestStore(t)
	st.JoinSpace("alice", "town1_1")
	st.ClaimSpace("town1_1", "alice")

	testutil.AssertEqual(t, "non-host", st.DisbandSpace("town1_1", "bob"), false)
	testutil.AssertEqual(t, "unknown space", st.DisbandSpace("town1_99", "alice"), false)
	testutil.AssertEqual(t, "host", st.DisbandSpace("town1_1", "alice"), true)
	testutil.AssertEqual(t, "public again", st.GetSpace("town1_1").IsPrivate(), false)
}

func TestStore_RemoveFromAllSpaces(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.CreateSpace("2", "town1"); err != nil {
		t.Fatalf("unexpected error creating space: %v", err)
	}
	st.JoinSpace("alice", "town1_1")

	st.RemoveFromAllSpaces("alice")

	testutil.AssertEqual(t, "alice nowhere", st.GetSpaceForPlayer("alice").ID, WorldSpaceID)
}

func TestStore_ListSpaces(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.CreateSpace("2", "town1"); err != nil {
		t.Fatalf("unexpected error creating space: %v", err)
	}

	infos := st.ListSpaces()
	testutil.AssertEqual(t, "space count", len(infos), 2)
}

// The end-to-end claim/whitelist/disband flow across store operations.
func TestStore_SpaceLifecycle(t *testing.T) {
	st := newTestStore(t)

	// A public space admits anyone known to the town
	testutil.AssertEqual(t, "alice joins", st.JoinSpace("alice", "town1_1"), true)
	testutil.AssertEqual(t, "alice located", st.GetSpaceForPlayer("alice").ID, "town1_1")

	// Alice claims it; bob is locked out until whitelisted
	testutil.AssertEqual(t, "alice claims", st.ClaimSpace("town1_1", "alice"), true)
	testutil.AssertEqual(t, "bob rejected", st.JoinSpace("bob", "town1_1"), false)

	testutil.AssertEqual(t, "whitelist bob",
		st.UpdateSpace("town1_1", "alice", nil, []string{"alice", "bob"}), true)
	testutil.AssertEqual(t, "bob admitted", st.JoinSpace("bob", "town1_1"), true)

	// Bob cannot make himself presenter
	presenter := "bob"
	testutil.AssertEqual(t, "bob self-promotes", st.UpdateSpace("town1_1", "bob", &presenter, nil), false)
	testutil.AssertEqual(t, "presenter unchanged", st.GetSpace("town1_1").Snapshot().PresenterID, "")

	// Alice disbands: everyone is evicted, the space is public and clean
	testutil.AssertEqual(t, "alice disbands", st.DisbandSpace("town1_1", "alice"), true)
	testutil.AssertEqual(t, "bob evicted", st.GetSpaceForPlayer("bob").ID, WorldSpaceID)

	snap := st.GetSpace("town1_1").Snapshot()
	testutil.AssertEqual(t, "public", snap.HostID, "")
	testutil.AssertEqual(t, "whitelist empty", len(snap.WhitelistIDs), 0)
}
