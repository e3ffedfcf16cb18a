package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"MuseFM/cache"
	"MuseFM/logger"
)

const (
	defaultSongLimit = 10
	maxSongLimit     = 50
)

// ListSongsHandler returns the most recently uploaded songs. Publicly
// accessible. The limit query parameter is clamped to [1, 50].
func (h *APIHandler) ListSongsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultSongLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}
	if limit > maxSongLimit {
		limit = maxSongLimit
	}

	ctx := r.Context()

	if limit == defaultSongLimit {
		if cached, err := cache.GetRecentSongs(ctx); err == nil && cached != nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"songs":   cached,
			})
			return
		}
	}

	songs, err := h.songRepo.ListRecentSongs(limit)
	if err != nil {
		logger.Error("Failed to list songs", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch songs")
		return
	}

	if limit == defaultSongLimit {
		if err := cache.CacheRecentSongs(ctx, songs); err != nil {
			logger.Warn("Failed to cache recent songs", logger.ErrorField(err))
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"songs":   songs,
	})
}

// AdminListSongsHandler returns every song with uploader names resolved.
func (h *APIHandler) AdminListSongsHandler(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songRepo.ListAllSongs()
	if err != nil {
		logger.Error("Failed to list all songs", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch songs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"songs":   songs,
	})
}

// AdminDeleteSongHandler removes a song row and its stored blobs. Blob
// removal errors are logged and ignored; the row deletion alone decides the
// response.
func (h *APIHandler) AdminDeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	songID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	song, err := h.songRepo.GetSongByID(songID)
	if err != nil {
		logger.Error("Failed to load song for deletion", logger.Int64("songID", songID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete song")
		return
	}
	if song == nil {
		writeError(w, http.StatusNotFound, "Song not found")
		return
	}

	ctx := r.Context()

	if song.FilePath != "" {
		key := h.store.KeyFromURL(song.FilePath)
		if err := h.store.Remove(ctx, key); err != nil {
			logger.Warn("Failed to remove audio blob", logger.String("key", key), logger.ErrorField(err))
		}
	}
	if song.CoverArtPath != "" {
		key := h.store.KeyFromURL(song.CoverArtPath)
		if err := h.store.Remove(ctx, key); err != nil {
			logger.Warn("Failed to remove cover blob", logger.String("key", key), logger.ErrorField(err))
		}
	}

	if err := h.songRepo.DeleteSong(songID); err != nil {
		logger.Error("Failed to delete song row", logger.Int64("songID", songID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete song")
		return
	}

	if err := cache.InvalidateRecentSongs(ctx); err != nil {
		logger.Warn("Failed to invalidate recent songs cache", logger.ErrorField(err))
	}

	logger.Info("Song deleted", logger.Int64("songID", songID))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Song deleted successfully",
	})
}
