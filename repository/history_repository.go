package repository

import (
	"context"

	"MuseFM/model"

	"gorm.io/gorm"
)

// HistoryRepository defines the interface for the play-history log.
type HistoryRepository interface {
	RecordPlay(ctx context.Context, entry *model.PlayHistory) error
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*model.PlayHistory, error)
}

// gormHistoryRepository is the GORM implementation.
type gormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a GORM play-history repository.
func NewGormHistoryRepository(db *gorm.DB) HistoryRepository {
	return &gormHistoryRepository{db: db}
}

// RecordPlay appends a playback log entry.
func (r *gormHistoryRepository) RecordPlay(ctx context.Context, entry *model.PlayHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecentByUser returns the user's latest plays, up to limit.
func (r *gormHistoryRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*model.PlayHistory, error) {
	var entries []*model.PlayHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
