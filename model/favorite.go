package model

import "time"

// Favorite is a user's bookmarked song. The (user, song) pair is unique;
// a second insert for the same pair is rejected by the database.
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_song" json:"userId"`
	SongID    int64     `gorm:"not null;uniqueIndex:uq_user_song" json:"songId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName sets the table name for GORM.
func (Favorite) TableName() string {
	return "user_favorites"
}
