package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/pixil98/go-town/internal/space"
)

// responseEnvelope wraps every response from the server. Store-level
// rejections (unknown IDs, authorization failures) come back with isOK false
// in a 200; only malformed requests and configuration errors use non-2xx
// status codes.
type responseEnvelope struct {
	IsOK     bool   `json:"isOK"`
	Message  string `json:"message,omitempty"`
	Response any    `json:"response,omitempty"`
}

// spaceInfo is the wire-level read model for a space. The "World" value with
// empty lists and null host and presenter means "not in any private space";
// clients key off it and it must round-trip exactly.
type spaceInfo struct {
	SpaceID        string   `json:"coveySpaceID"`
	CurrentPlayers []string `json:"currentPlayers"`
	Whitelist      []string `json:"whitelist"`
	HostID         *string  `json:"hostID"`
	PresenterID    *string  `json:"presenterID"`
}

func wireInfo(info space.Info) spaceInfo {
	return spaceInfo{
		SpaceID:        info.ID,
		CurrentPlayers: info.OccupantIDs,
		Whitelist:      info.WhitelistIDs,
		HostID:         nullable(info.HostID),
		PresenterID:    nullable(info.PresenterID),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeJSON(w http.ResponseWriter, status int, env responseEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Warn("encoding response", "error", err)
	}
}

func writeOK(w http.ResponseWriter, message string, response any) {
	writeJSON(w, http.StatusOK, responseEnvelope{IsOK: true, Message: message, Response: response})
}

func writeRejected(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, responseEnvelope{IsOK: false, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, responseEnvelope{IsOK: false, Message: message})
}

// decodeBody decodes a JSON request body. An empty body decodes to the zero
// value so routes with optional bodies stay total.
func decodeBody(r *http.Request, out any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
