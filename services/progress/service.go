package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/codetube-labs/codetube/services/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// UpsertProgress records a watch position, keyed on (user, video). A
// position at or past 95% of the duration marks the video completed;
// completion never reverts when the user scrubs back.
func (s *Service) UpsertProgress(userID uint, videoID, title string, seconds, duration int) (*WatchProgress, error) {
	record := WatchProgress{
		UserID:        userID,
		VideoID:       videoID,
		Title:         title,
		Seconds:       seconds,
		Duration:      duration,
		LastWatchedAt: time.Now(),
	}
	if duration > 0 && seconds*100 >= duration*95 {
		record.Completed = true
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":           record.Title,
			"seconds":         record.Seconds,
			"duration":        record.Duration,
			"completed":       gorm.Expr("completed OR ?", record.Completed),
			"last_watched_at": record.LastWatchedAt,
			"updated_at":      time.Now(),
		}),
	}).Create(&record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert watch progress: %w", err)
	}

	var stored WatchProgress
	if err := s.db.Where("user_id = ? AND video_id = ?", userID, videoID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to reload watch progress: %w", err)
	}
	return &stored, nil
}

func (s *Service) GetProgress(userID uint, videoID string) (*WatchProgress, error) {
	var record WatchProgress
	err := s.db.Where("user_id = ? AND video_id = ?", userID, videoID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watch progress: %w", err)
	}
	return &record, nil
}

func (s *Service) ListProgress(userID uint) ([]WatchProgress, error) {
	var records []WatchProgress
	err := s.db.Where("user_id = ?", userID).
		Order("last_watched_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list watch progress: %w", err)
	}
	return records, nil
}

func (s *Service) AddBookmark(userID uint, videoID, title, thumbnailURL string) (*Bookmark, error) {
	record := Bookmark{
		UserID:       userID,
		VideoID:      videoID,
		Title:        title,
		ThumbnailURL: thumbnailURL,
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add bookmark: %w", err)
	}
	return &record, nil
}

func (s *Service) ListBookmarks(userID uint) ([]Bookmark, error) {
	var records []Bookmark
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return records, nil
}

func (s *Service) RemoveBookmark(userID uint, videoID string) error {
	res := s.db.Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&Bookmark{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove bookmark: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) AddWishlistItem(userID uint, videoID, title, thumbnailURL string) (*WishlistItem, error) {
	record := WishlistItem{
		UserID:       userID,
		VideoID:      videoID,
		Title:        title,
		ThumbnailURL: thumbnailURL,
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return &record, nil
}

func (s *Service) ListWishlist(userID uint) ([]WishlistItem, error) {
	var records []WishlistItem
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return records, nil
}

func (s *Service) RemoveWishlistItem(userID uint, videoID string) error {
	res := s.db.Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&WishlistItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
