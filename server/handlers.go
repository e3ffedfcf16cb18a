package server

import (
	"encoding/json"
	"net/http"

	"MuseFM/config"
	"MuseFM/logger"
	"MuseFM/repository"
	"MuseFM/storage"
)

// APIHandler handles all API requests.
type APIHandler struct {
	userRepo     repository.UserRepository
	songRepo     repository.SongRepository
	playlistRepo repository.PlaylistRepository
	favoriteRepo repository.FavoriteRepository
	historyRepo  repository.HistoryRepository
	store        storage.ObjectStore
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	songRepo repository.SongRepository,
	playlistRepo repository.PlaylistRepository,
	favoriteRepo repository.FavoriteRepository,
	historyRepo repository.HistoryRepository,
	store storage.ObjectStore,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		songRepo:     songRepo,
		playlistRepo: playlistRepo,
		favoriteRepo: favoriteRepo,
		historyRepo:  historyRepo,
		store:        store,
		cfg:          cfg,
	}
}

// writeJSON writes payload as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode JSON response", logger.ErrorField(err))
	}
}

// writeError writes the error envelope {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
