package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MuseFM/db"
	"MuseFM/model"

	"github.com/go-redis/redis/v8"
)

const (
	recentSongsKey = "songs:recent"
	recentSongsTTL = 5 * time.Minute
)

// CacheRecentSongs stores the recent-songs browse list.
func CacheRecentSongs(ctx context.Context, songs []*model.Song) error {
	if db.RedisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}

	payload, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("failed to marshal recent songs: %w", err)
	}

	if err := db.RedisClient.Set(ctx, recentSongsKey, payload, recentSongsTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache recent songs: %w", err)
	}
	return nil
}

// GetRecentSongs returns the cached browse list, or (nil, nil) on a miss.
func GetRecentSongs(ctx context.Context) ([]*model.Song, error) {
	if db.RedisClient == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}

	payload, err := db.RedisClient.Get(ctx, recentSongsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read recent songs cache: %w", err)
	}

	var songs []*model.Song
	if err := json.Unmarshal([]byte(payload), &songs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recent songs cache: %w", err)
	}
	return songs, nil
}

// InvalidateRecentSongs drops the cached browse list. Called after uploads
// and deletions change the catalog.
func InvalidateRecentSongs(ctx context.Context) error {
	if db.RedisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return db.RedisClient.Del(ctx, recentSongsKey).Err()
}
