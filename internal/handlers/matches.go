package handlers

import (
	"net/http"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

func (h *Handler) matchIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		h.errorResponse(w, http.StatusBadRequest, "matchId is required")
		return "", false
	}
	return matchID, true
}

// GetMatch returns a cached match blob
// @Summary Get cached match
// @Tags Matches
// @Produce json
// @Param matchId query string true "Match ID"
// @Success 200 {object} object
// @Failure 404 {object} map[string]string
// @Router /match [get]
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := h.matchIDParam(w, r)
	if !ok {
		return
	}
	blob, err := h.store.GetMatch(r.Context(), matchID)
	if err != nil {
		h.serviceError(w, err, "match")
		return
	}
	h.jsonResponse(w, http.StatusOK, blob)
}

// GetMatches lists every cached match ID
// @Summary List cached match IDs
// @Tags Matches
// @Produce json
// @Success 200 {array} string
// @Router /matches [get]
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.ListMatchIDs(r.Context())
	if err != nil {
		h.serviceError(w, err, "matches")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	h.jsonResponse(w, http.StatusOK, ids)
}

// GetTimeline returns a cached timeline blob
// @Summary Get cached match timeline
// @Tags Matches
// @Produce json
// @Param matchId query string true "Match ID"
// @Success 200 {object} object
// @Failure 404 {object} map[string]string
// @Router /match/timeline [get]
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	matchID, ok := h.matchIDParam(w, r)
	if !ok {
		return
	}
	blob, err := h.store.GetTimeline(r.Context(), matchID)
	if err != nil {
		h.serviceError(w, err, "timeline")
		return
	}
	h.jsonResponse(w, http.StatusOK, blob)
}

// GetTimelines lists every cached timeline ID
// @Summary List cached timeline IDs
// @Tags Matches
// @Produce json
// @Success 200 {array} string
// @Router /matches/timelines [get]
func (h *Handler) GetTimelines(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.ListTimelineIDs(r.Context())
	if err != nil {
		h.serviceError(w, err, "timelines")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	h.jsonResponse(w, http.StatusOK, ids)
}

// CreateMatch enqueues caching of one match blob
// @Summary Enqueue match ingestion
// @Tags Matches
// @Accept json
// @Produce json
// @Param request body models.MatchRequest true "Match ID"
// @Success 200 {object} models.EnqueueResponse
// @Failure 400 {object} map[string]string
// @Router /match [post]
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	h.enqueueMatchAction(w, r, models.ActionCreateMatchData)
}

// CreateTimeline enqueues caching of one timeline blob
// @Summary Enqueue timeline ingestion
// @Tags Matches
// @Accept json
// @Produce json
// @Param request body models.MatchRequest true "Match ID"
// @Success 200 {object} models.EnqueueResponse
// @Failure 400 {object} map[string]string
// @Router /match/timeline [post]
func (h *Handler) CreateTimeline(w http.ResponseWriter, r *http.Request) {
	h.enqueueMatchAction(w, r, models.ActionCreateMatchTimeline)
}

func (h *Handler) enqueueMatchAction(w http.ResponseWriter, r *http.Request, action string) {
	var req models.MatchRequest
	if !decodeBody(h, w, r, &req) {
		return
	}
	msg, err := models.NewMessage(action, models.MatchMessage{MatchID: req.MatchID})
	if err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}
	if err := h.dispatcher.Enqueue(r.Context(), h.matchQueueURL, msg); err != nil {
		h.serviceError(w, err, "enqueue")
		return
	}
	h.jsonResponse(w, http.StatusOK, models.EnqueueResponse{Enqueued: 1, Queue: "match"})
}

// GetMatchHistory returns formatted match history for a player
// @Summary Get formatted match history
// @Tags Matches
// @Produce json
// @Param gameName query string true "Riot ID game name"
// @Param tagLine query string true "Riot ID tag line"
// @Success 200 {array} models.MatchSummary
// @Failure 404 {object} map[string]string
// @Router /match-history [get]
func (h *Handler) GetMatchHistory(w http.ResponseWriter, r *http.Request) {
	gameName, tagLine, ok := h.riotIDParams(w, r)
	if !ok {
		return
	}
	history, err := h.matchHistory.HistoryByRiotID(r.Context(), gameName, tagLine)
	if err != nil {
		h.serviceError(w, err, "player")
		return
	}
	if history == nil {
		history = []models.MatchSummary{}
	}
	h.jsonResponse(w, http.StatusOK, history)
}

// GetChampionStats returns the server-wide champion rollup
// @Summary List aggregate champion stats
// @Tags Champions
// @Produce json
// @Success 200 {array} models.AggregateChampionStats
// @Router /champion-stats [get]
func (h *Handler) GetChampionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.championStats.ListAggregates(r.Context())
	if err != nil {
		h.serviceError(w, err, "champion stats")
		return
	}
	if stats == nil {
		stats = []models.AggregateChampionStats{}
	}
	h.jsonResponse(w, http.StatusOK, stats)
}
