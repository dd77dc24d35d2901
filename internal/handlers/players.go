package handlers

import (
	"net/http"

	"github.com/pencilhero402/rift-rewind/internal/models"
	"github.com/pencilhero402/rift-rewind/internal/riot"
)

// GetPlayer returns a cached player record
// @Summary Get cached player
// @Tags Players
// @Produce json
// @Param gameName query string true "Riot ID game name"
// @Param tagLine query string true "Riot ID tag line"
// @Success 200 {object} models.Player
// @Failure 404 {object} map[string]string
// @Router /player [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	gameName, tagLine, ok := h.riotIDParams(w, r)
	if !ok {
		return
	}
	player, err := h.store.GetPlayerByRiotID(r.Context(), gameName, tagLine)
	if err != nil {
		h.serviceError(w, err, "player")
		return
	}
	h.jsonResponse(w, http.StatusOK, player)
}

// GetPlayers lists every cached player
// @Summary List cached players
// @Tags Players
// @Produce json
// @Success 200 {array} models.Player
// @Router /players [get]
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.store.ListPlayers(r.Context())
	if err != nil {
		h.serviceError(w, err, "players")
		return
	}
	if players == nil {
		players = []models.Player{}
	}
	h.jsonResponse(w, http.StatusOK, players)
}

// GetPlayerStats returns the computed stats for one player
// @Summary Get player stats
// @Tags Players
// @Produce json
// @Success 200 {object} models.PlayerStats
// @Failure 404 {object} map[string]string
// @Router /player/stat [get]
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	gameName, tagLine, ok := h.riotIDParams(w, r)
	if !ok {
		return
	}
	player, err := h.store.GetPlayerByRiotID(r.Context(), gameName, tagLine)
	if err != nil {
		h.serviceError(w, err, "player")
		return
	}
	stats, err := h.store.GetPlayerStats(r.Context(), player.PUUID)
	if err != nil {
		h.serviceError(w, err, "player stats")
		return
	}
	h.jsonResponse(w, http.StatusOK, stats)
}

// GetAllPlayerStats lists stats for every player that has them
// @Summary List all player stats
// @Tags Players
// @Produce json
// @Success 200 {array} models.PlayerStats
// @Router /players/stats [get]
func (h *Handler) GetAllPlayerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.ListPlayerStats(r.Context())
	if err != nil {
		h.serviceError(w, err, "player stats")
		return
	}
	if stats == nil {
		stats = []models.PlayerStats{}
	}
	h.jsonResponse(w, http.StatusOK, stats)
}

// CreatePlayer ingests a player and fans the heavy work out to the queues
// @Summary Ingest a player
// @Tags Players
// @Accept json
// @Produce json
// @Param request body models.PlayerRequest true "Riot ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /player [post]
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req models.PlayerRequest
	if !decodeBody(h, w, r, &req) {
		return
	}
	ctx := r.Context()

	player, err := h.ingestor.IngestPlayer(ctx, req.GameName, req.TagLine)
	if err != nil {
		h.serviceError(w, err, "player")
		return
	}

	matchIDs, err := h.ingestor.ListMatchIDs(ctx, player.PUUID, riot.MatchListOptions{})
	if err != nil {
		h.serviceError(w, err, "match list")
		return
	}

	matchMsgs := make([]models.Message, 0, 2*len(matchIDs))
	for _, action := range []string{models.ActionCreateMatchData, models.ActionCreateMatchTimeline} {
		for _, id := range matchIDs {
			msg, err := models.NewMessage(action, models.MatchMessage{MatchID: id})
			if err != nil {
				h.serviceError(w, err, "enqueue")
				return
			}
			matchMsgs = append(matchMsgs, msg)
		}
	}
	if err := h.dispatcher.EnqueueBatch(ctx, h.matchQueueURL, matchMsgs); err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}

	statsMsg, err := models.NewMessage(models.ActionCreatePlayerStats,
		models.PlayerMessage{GameName: req.GameName, TagLine: req.TagLine})
	if err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}
	aggMsg, err := models.NewMessage(models.ActionCreateChampionStats, nil)
	if err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}
	if err := h.dispatcher.EnqueueBatch(ctx, h.playerQueueURL, []models.Message{statsMsg, aggMsg}); err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"player":           player,
		"matchesEnqueued":  len(matchIDs),
		"enqueuedMessages": len(matchMsgs) + 2,
	})
}

// CreatePlayerStats enqueues a stats recompute for one player
// @Summary Enqueue player stats recompute
// @Tags Players
// @Accept json
// @Produce json
// @Success 200 {object} models.EnqueueResponse
// @Failure 400 {object} map[string]string
// @Router /player/stat [post]
func (h *Handler) CreatePlayerStats(w http.ResponseWriter, r *http.Request) {
	var req models.PlayerRequest
	if !decodeBody(h, w, r, &req) {
		return
	}
	msg, err := models.NewMessage(models.ActionCreatePlayerStats,
		models.PlayerMessage{GameName: req.GameName, TagLine: req.TagLine})
	if err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}
	if err := h.dispatcher.Enqueue(r.Context(), h.playerQueueURL, msg); err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}
	h.jsonResponse(w, http.StatusOK, models.EnqueueResponse{Enqueued: 1, Queue: "player"})
}

// DeletePlayer enqueues removal of a cached player
// @Summary Enqueue player deletion
// @Tags Players
// @Accept json
// @Produce json
// @Success 200 {object} models.EnqueueResponse
// @Failure 400 {object} map[string]string
// @Router /player [delete]
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	var req models.PlayerRequest
	if !decodeBody(h, w, r, &req) {
		return
	}
	msg, err := models.NewMessage(models.ActionDeletePlayer,
		models.PlayerMessage{GameName: req.GameName, TagLine: req.TagLine})
	if err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}
	if err := h.dispatcher.Enqueue(r.Context(), h.playerQueueURL, msg); err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}
	h.jsonResponse(w, http.StatusOK, models.EnqueueResponse{Enqueued: 1, Queue: "player"})
}
