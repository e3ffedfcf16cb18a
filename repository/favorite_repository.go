package repository

import (
	"context"
	"fmt"

	"MuseFM/model"

	"gorm.io/gorm"
)

// FavoriteRepository defines the interface for favorite data operations.
type FavoriteRepository interface {
	AddFavorite(ctx context.Context, fav *model.Favorite) error
	RemoveFavorite(ctx context.Context, userID, songID int64) error
	ListFavoriteSongs(ctx context.Context, userID int64) ([]*model.Song, error)
	CountForPair(ctx context.Context, userID, songID int64) (int64, error)
}

// gormFavoriteRepository is the GORM implementation.
type gormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a GORM favorite repository.
func NewGormFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &gormFavoriteRepository{db: db}
}

// AddFavorite inserts a favorite row. A duplicate (user, song) pair is
// rejected by the unique index and surfaced as ErrDuplicateFavorite.
func (r *gormFavoriteRepository) AddFavorite(ctx context.Context, fav *model.Favorite) error {
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("add favorite: %w", ErrDuplicateFavorite)
		}
		return err
	}
	return nil
}

// RemoveFavorite deletes the favorite row for the (user, song) pair.
func (r *gormFavoriteRepository) RemoveFavorite(ctx context.Context, userID, songID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&model.Favorite{}).Error
}

// ListFavoriteSongs returns the user's favorited songs, most recent first.
func (r *gormFavoriteRepository) ListFavoriteSongs(ctx context.Context, userID int64) ([]*model.Song, error) {
	var songs []*model.Song
	err := r.db.WithContext(ctx).
		Table("user_favorites").
		Select("songs.id, songs.title, songs.artist, songs.album, songs.file_path, songs.cover_art_path, songs.uploaded_by, songs.created_at, songs.updated_at").
		Joins("JOIN songs ON songs.id = user_favorites.song_id").
		Where("user_favorites.user_id = ?", userID).
		Order("user_favorites.created_at DESC").
		Scan(&songs).Error
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = make([]*model.Song, 0)
	}
	return songs, nil
}

// CountForPair counts favorite rows for the (user, song) pair.
func (r *gormFavoriteRepository) CountForPair(ctx context.Context, userID, songID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Count(&count).Error
	return count, err
}
