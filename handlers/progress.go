package handlers

import (
	"errors"
	"net/http"

	"github.com/codetube-labs/codetube/middleware/jwtauth"
	"github.com/codetube-labs/codetube/services/logging"
	"github.com/codetube-labs/codetube/services/progress"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ProgressHandler struct {
	progress *progress.Service
	logger   *logging.Service
}

func NewProgressHandler(progressService *progress.Service, logger *logging.Service) *ProgressHandler {
	return &ProgressHandler{
		progress: progressService,
		logger:   logger,
	}
}

type updateProgressRequest struct {
	Title    string `json:"title"`
	Seconds  int    `json:"seconds"`
	Duration int    `json:"duration"`
}

type savedVideoRequest struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// UpdateProgress handles PUT /api/progress/:videoID.
func (h *ProgressHandler) UpdateProgress(c echo.Context) error {
	userID := jwtauth.GetUserID(c)
	videoID := c.Param("videoID")

	var req updateProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Seconds < 0 || req.Duration < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Seconds and duration must not be negative")
	}

	record, err := h.progress.UpsertProgress(userID, videoID, req.Title, req.Seconds, req.Duration)
	if err != nil {
		h.logger.Error("failed to save watch progress",
			zap.Uint("user_id", userID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save progress")
	}

	return c.JSON(http.StatusOK, record)
}

// GetProgress handles GET /api/progress/:videoID.
func (h *ProgressHandler) GetProgress(c echo.Context) error {
	userID := jwtauth.GetUserID(c)
	videoID := c.Param("videoID")

	record, err := h.progress.GetProgress(userID, videoID)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No progress recorded")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load progress")
	}

	return c.JSON(http.StatusOK, record)
}

// ListProgress handles GET /api/progress.
func (h *ProgressHandler) ListProgress(c echo.Context) error {
	records, err := h.progress.ListProgress(jwtauth.GetUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load progress")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"progress": records,
	})
}

// AddBookmark handles POST /api/bookmarks.
func (h *ProgressHandler) AddBookmark(c echo.Context) error {
	userID := jwtauth.GetUserID(c)

	var req savedVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.VideoID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Video id is required")
	}

	record, err := h.progress.AddBookmark(userID, req.VideoID, req.Title, req.ThumbnailURL)
	if err != nil {
		h.logger.Error("failed to add bookmark", zap.Uint("user_id", userID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add bookmark")
	}

	return c.JSON(http.StatusOK, record)
}

// ListBookmarks handles GET /api/bookmarks.
func (h *ProgressHandler) ListBookmarks(c echo.Context) error {
	records, err := h.progress.ListBookmarks(jwtauth.GetUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load bookmarks")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"bookmarks": records,
	})
}

// RemoveBookmark handles DELETE /api/bookmarks/:videoID.
func (h *ProgressHandler) RemoveBookmark(c echo.Context) error {
	err := h.progress.RemoveBookmark(jwtauth.GetUserID(c), c.Param("videoID"))
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Bookmark not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove bookmark")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Bookmark removed",
	})
}

// AddWishlistItem handles POST /api/wishlist.
func (h *ProgressHandler) AddWishlistItem(c echo.Context) error {
	userID := jwtauth.GetUserID(c)

	var req savedVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.VideoID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Video id is required")
	}

	record, err := h.progress.AddWishlistItem(userID, req.VideoID, req.Title, req.ThumbnailURL)
	if err != nil {
		h.logger.Error("failed to add wishlist item", zap.Uint("user_id", userID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add wishlist item")
	}

	return c.JSON(http.StatusOK, record)
}

// ListWishlist handles GET /api/wishlist.
func (h *ProgressHandler) ListWishlist(c echo.Context) error {
	records, err := h.progress.ListWishlist(jwtauth.GetUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load wishlist")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"wishlist": records,
	})
}

// RemoveWishlistItem handles DELETE /api/wishlist/:videoID.
func (h *ProgressHandler) RemoveWishlistItem(c echo.Context) error {
	err := h.progress.RemoveWishlistItem(jwtauth.GetUserID(c), c.Param("videoID"))
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Wishlist item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove wishlist item")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Wishlist item removed",
	})
}
