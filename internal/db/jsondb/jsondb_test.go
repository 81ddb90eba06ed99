package jsondb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akraevsky/bkmrks/internal/db/storage"
	"github.com/akraevsky/bkmrks/internal/models"
)

func newTestDB(t *testing.T) (*JSONDB, string) {
	t.Helper()

	fileName := filepath.Join(t.TempDir(), "db.json")
	db, err := New(fileName)
	require.NoError(t, err)

	return db, fileName
}

func TestNewCreatesMissingFile(t *testing.T) {
	db, _ := newTestDB(t)

	assert.Empty(t, db.Cache.Users)
	assert.Empty(t, db.Cache.Tags)
	assert.Empty(t, db.Cache.Bookmarks)
}

func TestCloseThenReopenKeepsDocuments(t *testing.T) {
	db, fileName := newTestDB(t)
	ctx := context.Background()

	usr := &models.User{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "$2a$10$not-a-real-hash",
	}
	require.NoError(t, db.CreateUser(ctx, usr))

	tag := &models.Tag{Name: "golang", Slug: "golang"}
	require.NoError(t, db.CreateTag(ctx, tag))

	bookmark := &models.Bookmark{
		Name:   "Go blog",
		URL:    "https://go.dev/blog",
		TagIDs: []string{tag.ID},
		UserID: usr.ID,
	}
	require.NoError(t, db.CreateBookmark(ctx, bookmark))

	require.NoError(t, db.Close())

	reopened, err := New(fileName)
	require.NoError(t, err)

	storedUser, found, err := reopened.FindUserByUsername(ctx, "ada")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, usr.ID, storedUser.ID)
	assert.Equal(t, "$2a$10$not-a-real-hash", storedUser.Password)

	storedBookmark, found, err := reopened.FindOneBookmark(ctx, storage.BookmarkFilter{ID: bookmark.ID})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{tag.ID}, storedBookmark.TagIDs)
}

func TestCreateUserUniqueness(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateUser(ctx, &models.User{
		Username: "ada",
		Email:    "ada@example.com",
	}))

	err := db.CreateUser(ctx, &models.User{
		Username: "ada",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, storage.ErrConflict)

	err = db.CreateUser(ctx, &models.User{
		Username: "other",
		Email:    "ada@example.com",
	})
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestCreateTagStampsAndEnforcesSlugUniqueness(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	tag := &models.Tag{Name: "golang", Slug: "golang"}
	require.NoError(t, db.CreateTag(ctx, tag))

	assert.NotEmpty(t, tag.ID)
	assert.False(t, tag.CreatedAt.IsZero())
	assert.False(t, tag.UpdatedAt.IsZero())

	err := db.CreateTag(ctx, &models.Tag{Name: "Golang", Slug: "golang"})
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestUpdateTagRejectsSlugTakenByAnotherTag(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	first := &models.Tag{Name: "first", Slug: "first"}
	require.NoError(t, db.CreateTag(ctx, first))
	second := &models.Tag{Name: "second", Slug: "second"}
	require.NoError(t, db.CreateTag(ctx, second))

	second.Slug = "first"
	err := db.UpdateTag(ctx, second)
	assert.ErrorIs(t, err, storage.ErrConflict)

	// Keeping its own slug is not a conflict.
	second.Slug = "second"
	second.Name = "renamed"
	assert.NoError(t, db.UpdateTag(ctx, second))
}

func TestFindOneBookmarkEmptyFilterMatchesFirstDocument(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	first := &models.Bookmark{Name: "first", URL: "https://example.com/1", UserID: "u1"}
	require.NoError(t, db.CreateBookmark(ctx, first))
	require.NoError(t, db.CreateBookmark(ctx, &models.Bookmark{
		Name: "second", URL: "https://example.com/2", UserID: "u2",
	}))

	found, ok, err := db.FindOneBookmark(ctx, storage.BookmarkFilter{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, found.ID)
}

func TestCreateBookmarkStripsMaterializedTags(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	bookmark := &models.Bookmark{
		Name:   "tagged",
		URL:    "https://example.com",
		Tags:   []models.Tag{{Name: "stale", Slug: "stale"}},
		UserID: "u1",
	}
	require.NoError(t, db.CreateBookmark(ctx, bookmark))

	require.Len(t, db.Cache.Bookmarks, 1)
	assert.Nil(t, db.Cache.Bookmarks[0].Tags)
}

func TestFindTagsByIDsKeepsRequestedOrder(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	first := &models.Tag{Name: "first", Slug: "first"}
	require.NoError(t, db.CreateTag(ctx, first))
	second := &models.Tag{Name: "second", Slug: "second"}
	require.NoError(t, db.CreateTag(ctx, second))

	found, err := db.FindTagsByIDs(ctx, []string{second.ID, "missing", first.ID})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, second.ID, found[0].ID)
	assert.Equal(t, first.ID, found[1].ID)
}
