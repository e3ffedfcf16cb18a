package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"MuseFM/logger"
	"MuseFM/model"
)

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addPlaylistSongRequest struct {
	SongID int64 `json:"songId"`
}

// CreatePlaylistHandler creates an empty playlist owned by the caller.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	playlist := &model.Playlist{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   claims.UserID,
	}
	id, err := h.playlistRepo.CreatePlaylist(playlist)
	if err != nil {
		logger.Error("Failed to create playlist", logger.Int64("userID", claims.UserID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to create playlist")
		return
	}
	playlist.ID = id

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"playlist": playlist,
	})
}

// ListPlaylistsHandler returns the caller's playlists, newest first.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlists, err := h.playlistRepo.ListPlaylistsByOwner(claims.UserID)
	if err != nil {
		logger.Error("Failed to list playlists", logger.Int64("userID", claims.UserID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch playlists")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"playlists": playlists,
	})
}

// GetPlaylistHandler returns a playlist with its songs. Only the owner or an
// admin may read it; anyone else sees 404, which keeps playlist IDs from
// leaking their existence.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	playlist, err := h.playlistRepo.GetPlaylistByID(playlistID)
	if err != nil {
		logger.Error("Failed to load playlist", logger.Int64("playlistID", playlistID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch playlist")
		return
	}
	if playlist == nil || Authorize(claims, playlist.CreatedBy) != AuthOK {
		writeError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	songs, err := h.playlistRepo.GetPlaylistSongs(playlistID)
	if err != nil {
		logger.Error("Failed to load playlist songs", logger.Int64("playlistID", playlistID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch playlist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"playlist": &model.PlaylistWithSongs{
			Playlist: *playlist,
			Songs:    songs,
		},
	})
}

// AddPlaylistSongHandler appends a song to a playlist the caller owns. The
// new position is the current maximum plus one; concurrent appends to the
// same playlist can land on the same position.
func (h *APIHandler) AddPlaylistSongHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	var req addPlaylistSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID == 0 {
		writeError(w, http.StatusBadRequest, "songId is required")
		return
	}

	playlist, err := h.playlistRepo.GetPlaylistByIDAndOwner(playlistID, claims.UserID)
	if err != nil {
		logger.Error("Failed to load playlist", logger.Int64("playlistID", playlistID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to add song to playlist")
		return
	}
	if playlist == nil {
		writeError(w, http.StatusNotFound, "Playlist not found or access denied")
		return
	}

	song, err := h.songRepo.GetSongByID(req.SongID)
	if err != nil {
		logger.Error("Failed to load song", logger.Int64("songID", req.SongID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to add song to playlist")
		return
	}
	if song == nil {
		writeError(w, http.StatusNotFound, "Song not found")
		return
	}

	position, err := h.playlistRepo.NextPosition(playlistID)
	if err != nil {
		logger.Error("Failed to compute playlist position", logger.Int64("playlistID", playlistID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to add song to playlist")
		return
	}

	entry := &model.PlaylistSong{
		PlaylistID: playlistID,
		SongID:     req.SongID,
		Position:   position,
	}
	if _, err := h.playlistRepo.AddSong(entry); err != nil {
		logger.Error("Failed to add song to playlist",
			logger.Int64("playlistID", playlistID),
			logger.Int64("songID", req.SongID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to add song to playlist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"position": position,
	})
}

// RemovePlaylistSongHandler removes a song from a playlist the caller owns.
func (h *APIHandler) RemovePlaylistSongHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vars := mux.Vars(r)
	playlistID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}
	songID, err := strconv.ParseInt(vars["songId"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	playlist, err := h.playlistRepo.GetPlaylistByIDAndOwner(playlistID, claims.UserID)
	if err != nil {
		logger.Error("Failed to load playlist", logger.Int64("playlistID", playlistID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to remove song from playlist")
		return
	}
	if playlist == nil {
		writeError(w, http.StatusNotFound, "Playlist not found or access denied")
		return
	}

	if err := h.playlistRepo.RemoveSong(playlistID, songID); err != nil {
		logger.Error("Failed to remove song from playlist",
			logger.Int64("playlistID", playlistID),
			logger.Int64("songID", songID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to remove song from playlist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Song removed from playlist",
	})
}
