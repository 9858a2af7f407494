package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/codetube-labs/codetube/services/catalog"
	"github.com/codetube-labs/codetube/services/logging"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type VideoHandler struct {
	catalog *catalog.Service
	logger  *logging.Service
}

func NewVideoHandler(catalogService *catalog.Service, logger *logging.Service) *VideoHandler {
	return &VideoHandler{
		catalog: catalogService,
		logger:  logger,
	}
}

// Search handles GET /api/videos/search?q=&limit=.
func (h *VideoHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = parsed
	}

	videos, err := h.catalog.Search(c.Request().Context(), query, limit)
	if err != nil {
		if errors.Is(err, catalog.ErrSearchNotEnabled) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Video search is not enabled")
		}
		h.logger.Error("video search failed", zap.String("query", query), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to search videos")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"videos": videos,
	})
}

// Get handles GET /api/videos/:id.
func (h *VideoHandler) Get(c echo.Context) error {
	videoID := c.Param("id")
	if videoID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Video id is required")
	}

	video, err := h.catalog.Lookup(c.Request().Context(), videoID)
	if err != nil {
		if errors.Is(err, catalog.ErrVideoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Video not found")
		}
		h.logger.Error("video lookup failed", zap.String("video_id", videoID), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to look up video")
	}

	return c.JSON(http.StatusOK, video)
}
