package messaging

import "fmt"

// PlayerSubject is the per-player subject a connected client's realtime
// session subscribes to.
func PlayerSubject(playerID string) string {
	return fmt.Sprintf("player-%s", playerID)
}

// SpaceSubject carries membership events for one space.
func SpaceSubject(spaceID string) string {
	return fmt.Sprintf("space-%s", spaceID)
}
