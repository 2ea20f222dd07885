package messaging

import (
	"encoding/json"
	"log/slog"
)

// Real-time event names delivered to subscribed clients.
const (
	EventPlayerJoinedSpace = "player-joined-space"
	EventPlayerLeftSpace   = "player-left-space"
	EventSpaceDisbanded    = "space-disbanded"
)

// Event is the wire payload for a space membership change. PlayerID is empty
// for space-disbanded.
type Event struct {
	Event    string `json:"event"`
	SpaceID  string `json:"spaceID"`
	PlayerID string `json:"playerID,omitempty"`
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// SpaceEventBridge adapts one space's listener callbacks onto NATS subjects.
// Every event goes to the space's subject; join/leave events additionally go
// to the affected player's own subject, so an evicted player still hears
// about their eviction after losing the space subject. Publish failures are
// logged and dropped: a broken transport must never fail a state mutation.
type SpaceEventBridge struct {
	spaceID string
	pub     publisher
}

// NewSpaceEventBridge creates a bridge for the given space ID.
func NewSpaceEventBridge(spaceID string, pub publisher) *SpaceEventBridge {
	return &SpaceEventBridge{
		spaceID: spaceID,
		pub:     pub,
	}
}

// PlayerWalkedIn satisfies space.Listener.
func (b *SpaceEventBridge) PlayerWalkedIn(playerID string) {
	b.publish(Event{Event: EventPlayerJoinedSpace, SpaceID: b.spaceID, PlayerID: playerID}, playerID)
}

// PlayerWalkedOut satisfies space.Listener.
func (b *SpaceEventBridge) PlayerWalkedOut(playerID string) {
	b.publish(Event{Event: EventPlayerLeftSpace, SpaceID: b.spaceID, PlayerID: playerID}, playerID)
}

// SpaceDisbanded satisfies space.Listener.
func (b *SpaceEventBridge) SpaceDisbanded() {
	b.publish(Event{Event: EventSpaceDisbanded, SpaceID: b.spaceID}, "")
}

func (b *SpaceEventBridge) publish(ev Event, playerID string) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("marshalling space event", "space", b.spaceID, "error", err)
		return
	}

	subjects := []string{SpaceSubject(b.spaceID)}
	if playerID != "" {
		subjects = append(subjects, PlayerSubject(playerID))
	}

	for _, subject := range subjects {
		if err := b.pub.Publish(subject, data); err != nil {
			slog.Warn("publishing space event", "space", b.spaceID, "subject", subject, "error", err)
		}
	}
}
