package server

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"MuseFM/cache"
	"MuseFM/logger"
	"MuseFM/model"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-\.]`)

// sanitizeFilename strips characters that should not appear in object keys.
func sanitizeFilename(name string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(name, "_")
	if len(cleaned) > 150 {
		cleaned = cleaned[:150]
	}
	if cleaned == "" {
		cleaned = "upload"
	}
	return cleaned
}

// objectKey builds a timestamp-prefixed object key from the original
// filename. Two same-named files uploaded in the same millisecond collide;
// that window is accepted.
func objectKey(prefix, original string) string {
	return fmt.Sprintf("%s/%d-%s", prefix, time.Now().UnixMilli(), sanitizeFilename(original))
}

// UploadSongHandler handles multipart song uploads.
// Expected form fields:
//   - title: song title (required)
//   - artist, album: optional metadata
//   - audioFile: the audio blob (required)
//   - coverArt: cover image (optional)
//
// The audio blob must store before anything else happens; the cover blob is
// best-effort; the database row is written last. A failed row insert leaves
// the already-stored blobs behind with no compensating delete.
func (h *APIHandler) UploadSongHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse multipart form: %v", err))
		return
	}

	title := r.FormValue("title")
	audioFile, audioHeader, err := r.FormFile("audioFile")
	if err != nil || title == "" {
		writeError(w, http.StatusBadRequest, "Audio file and title are required")
		return
	}
	defer audioFile.Close()

	artist := r.FormValue("artist")
	album := r.FormValue("album")

	ctx := r.Context()

	audioKey := objectKey("audio", audioHeader.Filename)
	audioURL, err := h.store.Put(ctx, audioKey, audioFile, audioHeader.Size, audioHeader.Header.Get("Content-Type"))
	if err != nil {
		logger.Error("Audio upload failed", logger.String("key", audioKey), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to upload audio file")
		return
	}

	// Cover art is best-effort: the song is saved without one on failure.
	var coverURL string
	coverFile, coverHeader, err := r.FormFile("coverArt")
	if err == nil {
		defer coverFile.Close()
		coverKey := objectKey("covers", coverHeader.Filename)
		coverURL, err = h.store.Put(ctx, coverKey, coverFile, coverHeader.Size, coverHeader.Header.Get("Content-Type"))
		if err != nil {
			logger.Warn("Cover art upload failed, continuing without cover",
				logger.String("key", coverKey), logger.ErrorField(err))
			coverURL = ""
		}
	} else if err != http.ErrMissingFile {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Error processing cover file: %v", err))
		return
	}

	song := &model.Song{
		Title:        title,
		Artist:       artist,
		Album:        album,
		FilePath:     audioURL,
		CoverArtPath: coverURL,
		UploadedBy:   claims.UserID,
	}

	songID, err := h.songRepo.CreateSong(song)
	if err != nil {
		// The blobs are already stored; they stay orphaned.
		logger.Error("Failed to save song metadata",
			logger.String("audioKey", audioKey), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to save song metadata")
		return
	}
	song.ID = songID

	if err := cache.InvalidateRecentSongs(ctx); err != nil {
		logger.Warn("Failed to invalidate recent songs cache", logger.ErrorField(err))
	}

	logger.Info("Song uploaded",
		logger.Int64("songID", songID),
		logger.String("title", title),
		logger.Int64("uploadedBy", claims.UserID),
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"song":    song,
	})
}
