package progress

import (
	"testing"

	"github.com/codetube-labs/codetube/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	db := testutils.SetupTestDB(t, &WatchProgress{}, &Bookmark{}, &WishlistItem{})
	return NewService(db, nil)
}

func TestService_UpsertProgress(t *testing.T) {
	t.Run("creates then updates a single row per user and video", func(t *testing.T) {
		service := newTestService(t)

		first, err := service.UpsertProgress(1, "v1", "Go Basics", 30, 600)
		require.NoError(t, err)
		assert.Equal(t, 30, first.Seconds)
		assert.False(t, first.Completed)

		second, err := service.UpsertProgress(1, "v1", "Go Basics", 120, 600)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 120, second.Seconds)

		records, err := service.ListProgress(1)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("marks completed at 95 percent", func(t *testing.T) {
		service := newTestService(t)

		record, err := service.UpsertProgress(1, "v1", "Go Basics", 570, 600)
		require.NoError(t, err)
		assert.True(t, record.Completed)
	})

	t.Run("completion does not revert on scrub back", func(t *testing.T) {
		service := newTestService(t)

		_, err := service.UpsertProgress(1, "v1", "Go Basics", 600, 600)
		require.NoError(t, err)

		record, err := service.UpsertProgress(1, "v1", "Go Basics", 10, 600)
		require.NoError(t, err)
		assert.True(t, record.Completed)
		assert.Equal(t, 10, record.Seconds)
	})

	t.Run("different users do not collide", func(t *testing.T) {
		service := newTestService(t)

		_, err := service.UpsertProgress(1, "v1", "Go Basics", 30, 600)
		require.NoError(t, err)
		_, err = service.UpsertProgress(2, "v1", "Go Basics", 60, 600)
		require.NoError(t, err)

		mine, err := service.GetProgress(1, "v1")
		require.NoError(t, err)
		assert.Equal(t, 30, mine.Seconds)
	})
}

func TestService_GetProgress(t *testing.T) {
	service := newTestService(t)

	_, err := service.GetProgress(1, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWatchProgress_Percent(t *testing.T) {
	assert.Equal(t, 0, (&WatchProgress{Seconds: 10, Duration: 0}).Percent())
	assert.Equal(t, 50, (&WatchProgress{Seconds: 300, Duration: 600}).Percent())
	assert.Equal(t, 100, (&WatchProgress{Seconds: 700, Duration: 600}).Percent())
}

func TestService_Bookmarks(t *testing.T) {
	service := newTestService(t)

	t.Run("add and list", func(t *testing.T) {
		_, err := service.AddBookmark(1, "v1", "Go Basics", "http://img/1.jpg")
		require.NoError(t, err)

		items, err := service.ListBookmarks(1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "v1", items[0].VideoID)
	})

	t.Run("duplicate add is a no-op", func(t *testing.T) {
		_, err := service.AddBookmark(1, "v1", "Go Basics", "http://img/1.jpg")
		require.NoError(t, err)

		items, err := service.ListBookmarks(1)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, service.RemoveBookmark(1, "v1"))

		items, err := service.ListBookmarks(1)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("removing a missing bookmark reports not found", func(t *testing.T) {
		assert.ErrorIs(t, service.RemoveBookmark(1, "ghost"), ErrNotFound)
	})

	t.Run("removed bookmark can be added again", func(t *testing.T) {
		_, err := service.AddBookmark(1, "v9", "Go Generics", "http://img/9.jpg")
		require.NoError(t, err)
		require.NoError(t, service.RemoveBookmark(1, "v9"))

		_, err = service.AddBookmark(1, "v9", "Go Generics", "http://img/9.jpg")
		require.NoError(t, err)

		items, err := service.ListBookmarks(1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "v9", items[0].VideoID)
	})
}

func TestService_Wishlist(t *testing.T) {
	service := newTestService(t)

	_, err := service.AddWishlistItem(1, "v2", "Advanced Go", "http://img/2.jpg")
	require.NoError(t, err)

	items, err := service.ListWishlist(1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Advanced Go", items[0].Title)

	require.NoError(t, service.RemoveWishlistItem(1, "v2"))
	assert.ErrorIs(t, service.RemoveWishlistItem(1, "v2"), ErrNotFound)

	// Re-adding after removal must bring the item back.
	_, err = service.AddWishlistItem(1, "v2", "Advanced Go", "http://img/2.jpg")
	require.NoError(t, err)

	items, err = service.ListWishlist(1)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
