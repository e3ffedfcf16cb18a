package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"MuseFM/logger"
	"MuseFM/model"
)

type playRequest struct {
	SongID int64 `json:"songId"`
}

// RecordPlayHandler appends a play event to the caller's history. Insert
// failures are logged and swallowed; playback must never break because the
// history table is unavailable.
func (h *APIHandler) RecordPlayHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID == 0 {
		writeError(w, http.StatusBadRequest, "songId is required")
		return
	}

	entry := &model.PlayHistory{UserID: claims.UserID, SongID: req.SongID}
	if err := h.historyRepo.RecordPlay(r.Context(), entry); err != nil {
		logger.Warn("Failed to record play",
			logger.Int64("userID", claims.UserID),
			logger.Int64("songID", req.SongID),
			logger.ErrorField(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// ListHistoryHandler returns the caller's recent play events, newest first.
func (h *APIHandler) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	entries, err := h.historyRepo.ListRecentByUser(r.Context(), claims.UserID, limit)
	if err != nil {
		logger.Error("Failed to list play history", logger.Int64("userID", claims.UserID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch play history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"history": entries,
	})
}
