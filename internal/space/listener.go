package space

// Listener receives membership events for a single space. Implementations
// adapt these calls onto a transport (e.g. a NATS subject or a websocket);
// a listener must tolerate being called after it has removed itself.
type Listener interface {
	// PlayerWalkedIn is called when a player is admitted to the space.
	PlayerWalkedIn(playerID string)

	// PlayerWalkedOut is called when a player leaves or is evicted.
	PlayerWalkedOut(playerID string)

	// SpaceDisbanded is called when the host disbands the space. It fires
	// after the eviction PlayerWalkedOut calls.
	SpaceDisbanded()
}
