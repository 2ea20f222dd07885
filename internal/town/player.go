package town

// Location is a player's position in the town's 2D world.
type Location struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation string  `json:"rotation"`
	Moving   bool    `json:"moving"`
}

// Player is a connected player as seen by the rest of the system. Spaces
// store player IDs, not Player values; a full Player is only looked up when
// a display name or location is needed.
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// Session is what a player gets back when joining a town: their new Player
// identity plus the token that authenticates their realtime connection.
type Session struct {
	Player *Player
	Token  string
}
