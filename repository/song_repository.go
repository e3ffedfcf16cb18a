package repository

import (
	"database/sql"
	"fmt"
	"time"

	"MuseFM/model"
)

// SongRepository defines the interface for song catalog operations.
type SongRepository interface {
	CreateSong(song *model.Song) (int64, error)
	GetSongByID(id int64) (*model.Song, error)
	ListRecentSongs(limit int) ([]*model.Song, error)
	ListAllSongs() ([]*model.Song, error)
	DeleteSong(id int64) error
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	db *sql.DB
}

// NewMySQLSongRepository creates a new mysqlSongRepository.
func NewMySQLSongRepository(db *sql.DB) SongRepository {
	return &mysqlSongRepository{db: db}
}

const songColumns = "id, title, artist, album, file_path, cover_art_path, uploaded_by, created_at, updated_at"

func scanSongRow(scan func(dest ...interface{}) error) (*model.Song, error) {
	song := &model.Song{}
	var artist, album, coverArt sql.NullString
	err := scan(&song.ID, &song.Title, &artist, &album, &song.FilePath, &coverArt, &song.UploadedBy, &song.CreatedAt, &song.UpdatedAt)
	if err != nil {
		return nil, err
	}
	song.Artist = artist.String
	song.Album = album.String
	song.CoverArtPath = coverArt.String
	return song, nil
}

// CreateSong adds a new song to the database.
func (r *mysqlSongRepository) CreateSong(song *model.Song) (int64, error) {
	query := `INSERT INTO songs (title, artist, album, file_path, cover_art_path, uploaded_by, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreateSong: %w", err)
	}
	defer stmt.Close()

	var artist, album, coverArt sql.NullString
	if song.Artist != "" {
		artist = sql.NullString{String: song.Artist, Valid: true}
	}
	if song.Album != "" {
		album = sql.NullString{String: song.Album, Valid: true}
	}
	if song.CoverArtPath != "" {
		coverArt = sql.NullString{String: song.CoverArtPath, Valid: true}
	}

	now := time.Now()
	res, err := stmt.Exec(song.Title, artist, album, song.FilePath, coverArt, song.UploadedBy, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateSong: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateSong: %w", err)
	}
	return id, nil
}

// GetSongByID retrieves a song by its ID.
func (r *mysqlSongRepository) GetSongByID(id int64) (*model.Song, error) {
	row := r.db.QueryRow("SELECT "+songColumns+" FROM songs WHERE id = ?", id)
	song, err := scanSongRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Song not found
		}
		return nil, fmt.Errorf("failed to scan song by ID %d: %w", id, err)
	}
	return song, nil
}

// ListRecentSongs retrieves the newest songs, up to limit.
func (r *mysqlSongRepository) ListRecentSongs(limit int) ([]*model.Song, error) {
	query := "SELECT " + songColumns + " FROM songs ORDER BY created_at DESC LIMIT ?"
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// ListAllSongs retrieves every song with the uploader's display name joined
// in, newest first. Used by the admin dashboard.
func (r *mysqlSongRepository) ListAllSongs() ([]*model.Song, error) {
	query := `SELECT s.id, s.title, s.artist, s.album, s.file_path, s.cover_art_path, s.uploaded_by,
	                 s.created_at, s.updated_at, COALESCE(u.display_name, u.username)
	           FROM songs s
	           JOIN users u ON u.id = s.uploaded_by
	           ORDER BY s.created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all songs: %w", err)
	}
	defer rows.Close()

	songs := make([]*model.Song, 0)
	for rows.Next() {
		song := &model.Song{}
		var artist, album, coverArt sql.NullString
		err := rows.Scan(&song.ID, &song.Title, &artist, &album, &song.FilePath, &coverArt, &song.UploadedBy, &song.CreatedAt, &song.UpdatedAt, &song.UploaderName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song in ListAllSongs: %w", err)
		}
		song.Artist = artist.String
		song.Album = album.String
		song.CoverArtPath = coverArt.String
		songs = append(songs, song)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListAllSongs: %w", err)
	}

	return songs, nil
}

// DeleteSong removes a song row. Blob cleanup happens before this call and
// its outcome does not gate row deletion.
func (r *mysqlSongRepository) DeleteSong(id int64) error {
	stmt, err := r.db.Prepare("DELETE FROM songs WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare statement for DeleteSong: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(id); err != nil {
		return fmt.Errorf("failed to execute DeleteSong for ID %d: %w", id, err)
	}
	return nil
}

func collectSongs(rows *sql.Rows) ([]*model.Song, error) {
	songs := make([]*model.Song, 0)
	for rows.Next() {
		song, err := scanSongRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during song rows iteration: %w", err)
	}

	return songs, nil
}
