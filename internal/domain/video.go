package domain

import "time"

// Video is a single uploaded clip. Immutable after creation except for
// the likes counter; the auto-assigned id doubles as the feed's sort and
// cursor key.
type Video struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	StorageName string    `gorm:"column:storage_name;not null;uniqueIndex" json:"-"`
	Likes       int64     `gorm:"column:likes;not null;default:0" json:"likes"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Video) TableName() string { return "videos" }
