package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"MuseFM/logger"
	"MuseFM/model"
	"MuseFM/repository"
)

type favoriteRequest struct {
	SongID int64 `json:"songId"`
}

// AddFavoriteHandler stores a (user, song) favorite pair. Favoriting the
// same song twice returns 409.
func (h *APIHandler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID == 0 {
		writeError(w, http.StatusBadRequest, "songId is required")
		return
	}

	fav := &model.Favorite{UserID: claims.UserID, SongID: req.SongID}
	if err := h.favoriteRepo.AddFavorite(r.Context(), fav); err != nil {
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			writeError(w, http.StatusConflict, "Song is already in favorites")
			return
		}
		logger.Error("Failed to add favorite",
			logger.Int64("userID", claims.UserID),
			logger.Int64("songID", req.SongID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to add favorite")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Song added to favorites",
	})
}

// RemoveFavoriteHandler deletes a favorite pair. Removing a song that was
// never favorited succeeds quietly.
func (h *APIHandler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	songID, err := strconv.ParseInt(r.URL.Query().Get("songId"), 10, 64)
	if err != nil || songID == 0 {
		writeError(w, http.StatusBadRequest, "songId is required")
		return
	}

	if err := h.favoriteRepo.RemoveFavorite(r.Context(), claims.UserID, songID); err != nil {
		logger.Error("Failed to remove favorite",
			logger.Int64("userID", claims.UserID),
			logger.Int64("songID", songID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Song removed from favorites",
	})
}

// ListFavoritesHandler returns the caller's favorited songs, most recent
// first.
func (h *APIHandler) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	songs, err := h.favoriteRepo.ListFavoriteSongs(r.Context(), claims.UserID)
	if err != nil {
		logger.Error("Failed to list favorites", logger.Int64("userID", claims.UserID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch favorites")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"songs":   songs,
	})
}
