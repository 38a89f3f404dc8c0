package feed

import (
	"time"

	"clipfeed/internal/domain"
)

// VideoCard is the wire representation of a clip. The URL derived from
// the storage name is the only playback handle clients get.
type VideoCard struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is one feed page. NextCursor is null when the feed is exhausted.
type Page struct {
	Videos     []VideoCard `json:"videos"`
	NextCursor *int64      `json:"nextCursor"`
}

func NewVideoCard(v domain.Video, staticBase string) VideoCard {
	return VideoCard{
		ID:        v.ID,
		Title:     v.Title,
		URL:       staticBase + "/" + v.StorageName,
		Likes:     v.Likes,
		CreatedAt: v.CreatedAt,
	}
}
