package model

import "time"

// PlayHistory is an append-only playback log entry. Failing to record one
// never fails the playback request that produced it.
type PlayHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"userId"`
	SongID    int64     `gorm:"not null" json:"songId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName sets the table name for GORM.
func (PlayHistory) TableName() string {
	return "play_history"
}
