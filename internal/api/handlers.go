package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-town/internal/space"
	"github.com/pixil98/go-town/internal/town"
)

type handler struct {
	store    *space.Store
	towns    *town.Registry
	sub      Subscriber
	upgrader websocket.Upgrader
}

type joinTownRequest struct {
	Name string `json:"name"`
}

type joinTownResponse struct {
	Player       *town.Player `json:"player"`
	Token        string       `json:"token"`
	FriendlyName string       `json:"friendlyName"`
}

func (h *handler) joinTown(w http.ResponseWriter, r *http.Request) {
	t := h.towns.Town(r.PathValue("townID"))
	if t == nil {
		writeRejected(w, "no such town")
		return
	}

	var req joinTownRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "player name must be specified")
		return
	}

	session := t.AddPlayer(req.Name)
	writeOK(w, fmt.Sprintf("%s joined town %s", req.Name, t.ID()), joinTownResponse{
		Player:       session.Player,
		Token:        session.Token,
		FriendlyName: t.FriendlyName(),
	})
}

func (h *handler) leaveTown(w http.ResponseWriter, r *http.Request) {
	t := h.towns.Town(r.PathValue("townID"))
	if t == nil {
		writeRejected(w, "no such town")
		return
	}

	playerID := r.PathValue("playerID")
	h.store.RemoveFromAllSpaces(playerID)
	t.RemovePlayer(playerID)
	writeOK(w, fmt.Sprintf("player %s left town %s", playerID, t.ID()), nil)
}

func (h *handler) createSpace(w http.ResponseWriter, r *http.Request) {
	townID := r.PathValue("townID")
	spaceID := r.PathValue("spaceID")

	s, err := h.store.CreateSpace(spaceID, townID)
	if err != nil {
		// Creation is administrative; failures indicate a configuration
		// problem rather than a bad client request.
		writeJSON(w, http.StatusUnprocessableEntity, responseEnvelope{IsOK: false, Message: err.Error()})
		return
	}

	writeOK(w, fmt.Sprintf("space %s was created", s.ID()), wireInfo(s.Snapshot()))
}

func (h *handler) listSpaces(w http.ResponseWriter, r *http.Request) {
	townID := r.PathValue("townID")

	infos := h.store.ListSpaces()
	spaces := make([]spaceInfo, 0, len(infos))
	for _, info := range infos {
		if info.TownID != townID {
			continue
		}
		spaces = append(spaces, wireInfo(info))
	}

	writeOK(w, "", map[string]any{"spaces": spaces})
}

func (h *handler) spaceForPlayer(w http.ResponseWriter, r *http.Request) {
	info := h.store.GetSpaceForPlayer(r.PathValue("playerID"))
	writeOK(w, "", map[string]any{"space": wireInfo(info)})
}

type playerRequest struct {
	PlayerID string `json:"playerID"`
}

func (h *handler) joinSpace(w http.ResponseWriter, r *http.Request) {
	spaceID := compositeID(r)

	var req playerRequest
	if err := decodeBody(r, &req); err != nil || req.PlayerID == "" {
		writeBadRequest(w, "playerID must be specified")
		return
	}

	if !h.store.JoinSpace(req.PlayerID, spaceID) {
		writeRejected(w, fmt.Sprintf("player %s may not join space %s", req.PlayerID, spaceID))
		return
	}

	h.markActive(r.PathValue("townID"), req.PlayerID)
	writeOK(w, fmt.Sprintf("player %s joined space %s", req.PlayerID, spaceID), nil)
}

func (h *handler) leaveSpace(w http.ResponseWriter, r *http.Request) {
	spaceID := compositeID(r)

	var req playerRequest
	if err := decodeBody(r, &req); err != nil || req.PlayerID == "" {
		writeBadRequest(w, "playerID must be specified")
		return
	}

	h.store.LeaveSpace(req.PlayerID, spaceID)
	h.markActive(r.PathValue("townID"), req.PlayerID)
	writeOK(w, fmt.Sprintf("player %s left space %s", req.PlayerID, spaceID), nil)
}

func (h *handler) claimSpace(w http.ResponseWriter, r *http.Request) {
	spaceID := compositeID(r)

	var req playerRequest
	if err := decodeBody(r, &req); err != nil || req.PlayerID == "" {
		writeBadRequest(w, "playerID must be specified")
		return
	}

	if !h.store.ClaimSpace(spaceID, req.PlayerID) {
		writeRejected(w, fmt.Sprintf("space %s could not be claimed", spaceID))
		return
	}

	h.markActive(r.PathValue("townID"), req.PlayerID)
	writeOK(w, fmt.Sprintf("space %s is now hosted by %s", spaceID, req.PlayerID), nil)
}

type updateSpaceRequest struct {
	PlayerID string `json:"playerID"`
	// PresenterID absent or null leaves the presenter unchanged; an explicit
	// "" clears it.
	PresenterID *string  `json:"presenterID"`
	Whitelist   []string `json:"whitelist"`
}

func (h *handler) updateSpace(w http.ResponseWriter, r *http.Request) {
	spaceID := compositeID(r)

	var req updateSpaceRequest
	if err := decodeBody(r, &req); err != nil || req.PlayerID == "" {
		writeBadRequest(w, "playerID must be specified")
		return
	}

	if !h.store.UpdateSpace(spaceID, req.PlayerID, req.PresenterID, req.Whitelist) {
		writeRejected(w, fmt.Sprintf("space %s could not be updated", spaceID))
		return
	}

	h.markActive(r.PathValue("townID"), req.PlayerID)
	writeOK(w, fmt.Sprintf("space %s was updated", spaceID), nil)
}

func (h *handler) disbandSpace(w http.ResponseWriter, r *http.Request) {
	spaceID := compositeID(r)

	var req playerRequest
	if err := decodeBody(r, &req); err != nil || req.PlayerID == "" {
		writeBadRequest(w, "playerID must be specified")
		return
	}

	if !h.store.DisbandSpace(spaceID, req.PlayerID) {
		writeRejected(w, fmt.Sprintf("space %s could not be disbanded", spaceID))
		return
	}

	h.markActive(r.PathValue("townID"), req.PlayerID)
	writeOK(w, fmt.Sprintf("space %s was disbanded", spaceID), nil)
}

// compositeID rebuilds the store-level space ID from the route's town and
// local space segments.
func compositeID(r *http.Request) string {
	return fmt.Sprintf("%s_%s", r.PathValue("townID"), r.PathValue("spaceID"))
}

func (h *handler) markActive(townID, playerID string) {
	if t := h.towns.Town(townID); t != nil {
		t.MarkActive(playerID)
	}
}
