package model

import "time"

// Playlist represents a user-owned ordered collection of songs.
// Only the owner may mutate membership.
type Playlist struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistSong is a membership row. Position is append-only: the current
// max position in the playlist plus one, starting at 0. Positions are not
// re-balanced when a song is removed.
type PlaylistSong struct {
	ID         int64     `json:"id"`
	PlaylistID int64     `json:"playlistId"`
	SongID     int64     `json:"songId"`
	Position   int       `json:"position"`
	AddedAt    time.Time `json:"addedAt"`
}

// PlaylistWithSongs bundles a playlist and its songs in playback order.
type PlaylistWithSongs struct {
	Playlist Playlist `json:"playlist"`
	Songs    []*Song  `json:"songs"`
}
