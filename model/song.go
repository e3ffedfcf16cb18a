package model

import "time"

// Song represents an uploaded track in the catalog.
type Song struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist,omitempty"`
	Album        string    `json:"album,omitempty"`
	FilePath     string    `json:"filePath"`               // public URL of the audio object
	CoverArtPath string    `json:"coverArtPath,omitempty"` // public URL of the cover object, empty if none
	UploadedBy   int64     `json:"uploadedBy"`
	UploaderName string    `json:"uploaderName,omitempty"` // joined display name, populated by admin listings
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
