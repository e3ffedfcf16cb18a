package repository

import (
	"database/sql"
	"fmt"
	"time"

	"MuseFM/model"
)

// PlaylistRepository defines the interface for playlist data operations.
type PlaylistRepository interface {
	CreatePlaylist(playlist *model.Playlist) (int64, error)
	GetPlaylistByID(id int64) (*model.Playlist, error)
	GetPlaylistByIDAndOwner(id, ownerID int64) (*model.Playlist, error)
	ListPlaylistsByOwner(ownerID int64) ([]*model.Playlist, error)
	NextPosition(playlistID int64) (int, error)
	AddSong(ps *model.PlaylistSong) (int64, error)
	GetPlaylistSongs(playlistID int64) ([]*model.Song, error)
	RemoveSong(playlistID, songID int64) error
}

// mysqlPlaylistRepository implements PlaylistRepository for MySQL.
type mysqlPlaylistRepository struct {
	db *sql.DB
}

// NewMySQLPlaylistRepository creates a new mysqlPlaylistRepository.
func NewMySQLPlaylistRepository(db *sql.DB) PlaylistRepository {
	return &mysqlPlaylistRepository{db: db}
}

const playlistColumns = "id, name, description, created_by, created_at, updated_at"

func scanPlaylist(scan func(dest ...interface{}) error) (*model.Playlist, error) {
	playlist := &model.Playlist{}
	var description sql.NullString
	err := scan(&playlist.ID, &playlist.Name, &description, &playlist.CreatedBy, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		return nil, err
	}
	playlist.Description = description.String
	return playlist, nil
}

// CreatePlaylist adds a new playlist to the database.
func (r *mysqlPlaylistRepository) CreatePlaylist(playlist *model.Playlist) (int64, error) {
	query := `INSERT INTO playlists (name, description, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreatePlaylist: %w", err)
	}
	defer stmt.Close()

	var description sql.NullString
	if playlist.Description != "" {
		description = sql.NullString{String: playlist.Description, Valid: true}
	}

	now := time.Now()
	res, err := stmt.Exec(playlist.Name, description, playlist.CreatedBy, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreatePlaylist: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreatePlaylist: %w", err)
	}
	return id, nil
}

// GetPlaylistByID retrieves a playlist by its ID.
func (r *mysqlPlaylistRepository) GetPlaylistByID(id int64) (*model.Playlist, error) {
	row := r.db.QueryRow("SELECT "+playlistColumns+" FROM playlists WHERE id = ?", id)
	playlist, err := scanPlaylist(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Playlist not found
		}
		return nil, fmt.Errorf("failed to scan playlist by ID %d: %w", id, err)
	}
	return playlist, nil
}

// GetPlaylistByIDAndOwner retrieves a playlist only if ownerID owns it.
func (r *mysqlPlaylistRepository) GetPlaylistByIDAndOwner(id, ownerID int64) (*model.Playlist, error) {
	row := r.db.QueryRow("SELECT "+playlistColumns+" FROM playlists WHERE id = ? AND created_by = ?", id, ownerID)
	playlist, err := scanPlaylist(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found or not owned by this user
		}
		return nil, fmt.Errorf("failed to scan playlist by ID %d and owner %d: %w", id, ownerID, err)
	}
	return playlist, nil
}

// ListPlaylistsByOwner retrieves all playlists created by ownerID, newest first.
func (r *mysqlPlaylistRepository) ListPlaylistsByOwner(ownerID int64) ([]*model.Playlist, error) {
	query := "SELECT " + playlistColumns + " FROM playlists WHERE created_by = ? ORDER BY created_at DESC"
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	playlists := make([]*model.Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist in ListPlaylistsByOwner: %w", err)
		}
		playlists = append(playlists, playlist)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListPlaylistsByOwner: %w", err)
	}

	return playlists, nil
}

// NextPosition returns the append position for the playlist: the current
// highest position plus one, or 0 for an empty playlist. This read and the
// following insert are not serialized; concurrent adds to the same playlist
// can observe the same position.
func (r *mysqlPlaylistRepository) NextPosition(playlistID int64) (int, error) {
	var position int
	query := "SELECT position FROM playlist_songs WHERE playlist_id = ? ORDER BY position DESC LIMIT 1"
	err := r.db.QueryRow(query, playlistID).Scan(&position)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read max position for playlist %d: %w", playlistID, err)
	}
	return position + 1, nil
}

// AddSong inserts a membership row at the given position.
func (r *mysqlPlaylistRepository) AddSong(ps *model.PlaylistSong) (int64, error) {
	query := `INSERT INTO playlist_songs (playlist_id, song_id, position, added_at) VALUES (?, ?, ?, ?)`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for AddSong: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(ps.PlaylistID, ps.SongID, ps.Position, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to execute AddSong: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for AddSong: %w", err)
	}
	return id, nil
}

// GetPlaylistSongs retrieves the playlist's songs ordered by position.
func (r *mysqlPlaylistRepository) GetPlaylistSongs(playlistID int64) ([]*model.Song, error) {
	query := `SELECT s.id, s.title, s.artist, s.album, s.file_path, s.cover_art_path, s.uploaded_by, s.created_at, s.updated_at
	           FROM playlist_songs ps
	           JOIN songs s ON s.id = ps.song_id
	           WHERE ps.playlist_id = ?
	           ORDER BY ps.position ASC`
	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs for playlist %d: %w", playlistID, err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// RemoveSong deletes a membership row. Remaining positions keep their gaps.
func (r *mysqlPlaylistRepository) RemoveSong(playlistID, songID int64) error {
	stmt, err := r.db.Prepare("DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare statement for RemoveSong: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(playlistID, songID); err != nil {
		return fmt.Errorf("failed to execute RemoveSong for playlist %d song %d: %w", playlistID, songID, err)
	}
	return nil
}
