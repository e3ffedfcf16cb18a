package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"MuseFM/config"
	"MuseFM/db"
	"MuseFM/logger"
	"MuseFM/model"
	"MuseFM/repository"
	"MuseFM/storage"
)

// Start wires every dependency together and runs the HTTP server until an
// interrupt arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database schema", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	if err := db.AutoMigrateModels(&model.Favorite{}, &model.PlayHistory{}); err != nil {
		logger.Fatal("Failed to migrate models", logger.ErrorField(err))
	}

	// The cache is optional: handlers fall through to the database when
	// Redis is down.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, running without cache", logger.ErrorField(err))
	}

	userRepo := repository.NewMySQLUserRepository(db.DB)
	songRepo := repository.NewMySQLSongRepository(db.DB)
	playlistRepo := repository.NewMySQLPlaylistRepository(db.DB)
	favoriteRepo := repository.NewGormFavoriteRepository(db.GormDB)
	historyRepo := repository.NewGormHistoryRepository(db.GormDB)

	store := storage.NewMinioStore(storage.GetMinioClient(), cfg.MinioBucket, cfg.MinioPublicURL)

	handler := NewAPIHandler(userRepo, songRepo, playlistRepo, favoriteRepo, historyRepo, store, cfg)

	router := NewRouter(handler)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      corsMiddleware(requestLogMiddleware(router)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", logger.ErrorField(err))
	}

	if err := db.CloseRedis(); err != nil {
		logger.Warn("Failed to close Redis", logger.ErrorField(err))
	}
	if err := db.CloseGormDB(); err != nil {
		logger.Warn("Failed to close GORM connection", logger.ErrorField(err))
	}
	if db.DB != nil {
		if err := db.DB.Close(); err != nil {
			logger.Warn("Failed to close database", logger.ErrorField(err))
		}
	}

	logger.Info("Server exited")
}

// NewRouter builds the route table.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Public routes.
	api.HandleFunc("/auth/register", h.RegisterHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/login", h.LoginHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/songs", h.ListSongsHandler).Methods(http.MethodGet, http.MethodOptions)

	// Authenticated routes.
	api.HandleFunc("/me", h.AuthMiddleware(h.MeHandler)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/upload", h.AuthMiddleware(h.UploadSongHandler)).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/favorites", h.AuthMiddleware(h.ListFavoritesHandler)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/favorites", h.AuthMiddleware(h.AddFavoriteHandler)).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/favorites", h.AuthMiddleware(h.RemoveFavoriteHandler)).Methods(http.MethodDelete, http.MethodOptions)

	api.HandleFunc("/play", h.AuthMiddleware(h.RecordPlayHandler)).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/history", h.AuthMiddleware(h.ListHistoryHandler)).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/playlists", h.AuthMiddleware(h.ListPlaylistsHandler)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/playlists/{id:[0-9]+}", h.AuthMiddleware(h.GetPlaylistHandler)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/playlists/{id:[0-9]+}/songs", h.AuthMiddleware(h.AddPlaylistSongHandler)).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/playlists/{id:[0-9]+}/songs/{songId:[0-9]+}", h.AuthMiddleware(h.RemovePlaylistSongHandler)).Methods(http.MethodDelete, http.MethodOptions)

	// Admin routes.
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/songs", h.AuthMiddleware(h.AdminMiddleware(h.AdminListSongsHandler))).Methods(http.MethodGet, http.MethodOptions)
	admin.HandleFunc("/songs/{id:[0-9]+}", h.AuthMiddleware(h.AdminMiddleware(h.AdminDeleteSongHandler))).Methods(http.MethodDelete, http.MethodOptions)
	admin.HandleFunc("/users", h.AuthMiddleware(h.AdminMiddleware(h.AdminListUsersHandler))).Methods(http.MethodGet, http.MethodOptions)
	admin.HandleFunc("/users/{id:[0-9]+}/role", h.AuthMiddleware(h.AdminMiddleware(h.AdminUpdateUserRoleHandler))).Methods(http.MethodPatch, http.MethodOptions)

	return router
}
