package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-town/internal/messaging"
	"github.com/pixil98/go-town/internal/town"
)

// clientEvent is what a connected client sends back over the socket. A
// message carrying a location is a movement update; anything else only
// refreshes the idle timer.
type clientEvent struct {
	Location *town.Location `json:"location,omitempty"`
}

// events upgrades the connection to a websocket and streams the player's
// realtime events to it: the player's own subject, plus the subject of each
// space named in a "space" query parameter. The connection must present the
// session token issued when the player joined the town. The stream runs
// until the client disconnects. A slow client gets events dropped rather
// than blocking the publisher.
func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	townID := r.PathValue("townID")
	playerID := r.PathValue("playerID")

	t := h.towns.Town(townID)
	if t == nil || t.GetPlayer(playerID) == nil {
		http.Error(w, "unknown town or player", http.StatusNotFound)
		return
	}
	if !t.ValidSession(playerID, r.URL.Query().Get("token")) {
		http.Error(w, "invalid session token", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrading event socket", "player", playerID, "error", err)
		return
	}
	defer conn.Close()

	msgs := make(chan []byte, 16)
	subjects := []string{messaging.PlayerSubject(playerID)}
	for _, spaceID := range r.URL.Query()["space"] {
		subjects = append(subjects, messaging.SpaceSubject(spaceID))
	}

	var unsubs []func()
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	for _, subject := range subjects {
		unsub, err := h.sub.Subscribe(subject, func(data []byte) {
			select {
			case msgs <- data:
			default:
			}
		})
		if err != nil {
			slog.Warn("subscribing event socket", "subject", subject, "error", err)
			return
		}
		unsubs = append(unsubs, unsub)
	}

	// Reads carry the player's movement updates and double as the disconnect
	// detector; any message keeps the idle timer fresh.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var ev clientEvent
			if err := json.Unmarshal(data, &ev); err == nil && ev.Location != nil {
				t.UpdateLocation(playerID, *ev.Location)
				continue
			}
			t.MarkActive(playerID)
		}
	}()

	for {
		select {
		case <-done:
			return
		case data := <-msgs:
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if websocket.IsUnexpectedCloseError(err) {
					return
				}
				slog.Warn("writing event socket", "player", playerID, "error", err)
				return
			}
		}
	}
}
