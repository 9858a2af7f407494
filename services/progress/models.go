package progress

import (
	"time"

	"gorm.io/gorm"
)

type WatchProgress struct {
	gorm.Model
	UserID        uint      `json:"user_id" gorm:"uniqueIndex:idx_progress_user_video;not null"`
	VideoID       string    `json:"video_id" gorm:"uniqueIndex:idx_progress_user_video;size:32;not null"`
	Title         string    `json:"title"`
	Seconds       int       `json:"seconds" gorm:"not null;default:0"`
	Duration      int       `json:"duration" gorm:"not null;default:0"`
	Completed     bool      `json:"completed" gorm:"default:false"`
	LastWatchedAt time.Time `json:"last_watched_at"`
}

func (WatchProgress) TableName() string {
	return "watch_progress"
}

// Percent reports completion as 0-100. A zero duration reads as 0 rather
// than dividing by it.
func (w *WatchProgress) Percent() int {
	if w.Duration <= 0 {
		return 0
	}
	p := w.Seconds * 100 / w.Duration
	if p > 100 {
		p = 100
	}
	return p
}

// Bookmark and WishlistItem deliberately avoid gorm.Model: a soft-deleted
// row would keep occupying the (user_id, video_id) unique index and block
// the video from ever being re-added. Removal is a hard delete.
type Bookmark struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex:idx_bookmark_user_video;not null"`
	VideoID      string    `json:"video_id" gorm:"uniqueIndex:idx_bookmark_user_video;size:32;not null"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

type WishlistItem struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex:idx_wishlist_user_video;not null"`
	VideoID      string    `json:"video_id" gorm:"uniqueIndex:idx_wishlist_user_video;size:32;not null"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
