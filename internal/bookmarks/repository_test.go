package bookmarks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akraevsky/bkmrks/internal/apperrors"
	"github.com/akraevsky/bkmrks/internal/db/memorystorage"
	"github.com/akraevsky/bkmrks/internal/models"
	"github.com/akraevsky/bkmrks/internal/tags"
)

const (
	ownerID    = "0b854e86-2871-4b11-94c1-a285c2c955a0"
	strangerID = "9e9ad53d-8727-4584-94d2-2a8be02a38a3"
)

func newTestRepositories(t *testing.T) (*Repository, *tags.Repository) {
	t.Helper()

	theStorage, err := memorystorage.New()
	require.NoError(t, err)

	return New(theStorage), tags.New(theStorage)
}

func TestCreateBookmark(t *testing.T) {
	repo, _ := newTestRepositories(t)

	bookmark, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name:        "Go blog",
		URL:         "https://go.dev/blog",
		Description: "official blog",
		UserID:      ownerID,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, bookmark.ID)
	assert.Equal(t, "Go blog", bookmark.Name)
	assert.Equal(t, "https://go.dev/blog", bookmark.URL)
	assert.Equal(t, ownerID, bookmark.UserID)
	assert.Empty(t, bookmark.Tags)
}

func TestCreateBookmarkCollectsFieldErrors(t *testing.T) {
	repo, _ := newTestRepositories(t)

	_, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		UserID: ownerID,
	})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindInvalidUserInput, appErr.Kind)
	assert.Equal(t, []apperrors.FieldError{
		{Message: "name cannot be empty", Field: "name"},
		{Message: "url cannot be empty", Field: "url"},
	}, appErr.Fields)
}

func TestCreateBookmarkMissingUserIDFailsBeforeURLCheck(t *testing.T) {
	repo, _ := newTestRepositories(t)

	_, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name: "named but ownerless",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidFunctionInput))
}

func TestCreateBookmarkMaterializesTags(t *testing.T) {
	repo, tagRepo := newTestRepositories(t)

	golang, err := tagRepo.CreateTag(context.Background(), models.CreateTagInput{Name: "golang"})
	require.NoError(t, err)
	reading, err := tagRepo.CreateTag(context.Background(), models.CreateTagInput{Name: "reading"})
	require.NoError(t, err)

	bookmark, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name:   "Effective Go",
		URL:    "https://go.dev/doc/effective_go",
		Tags:   []string{reading.ID, golang.ID},
		UserID: ownerID,
	})
	require.NoError(t, err)

	require.Len(t, bookmark.Tags, 2)
	assert.Equal(t, "reading", bookmark.Tags[0].Slug)
	assert.Equal(t, "golang", bookmark.Tags[1].Slug)
}

func TestGetOneBookmarkSkipsDanglingTagReferences(t *testing.T) {
	repo, tagRepo := newTestRepositories(t)

	doomed, err := tagRepo.CreateTag(context.Background(), models.CreateTagInput{Name: "doomed"})
	require.NoError(t, err)
	kept, err := tagRepo.CreateTag(context.Background(), models.CreateTagInput{Name: "kept"})
	require.NoError(t, err)

	created, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name:   "tagged",
		URL:    "https://example.com",
		Tags:   []string{doomed.ID, kept.ID},
		UserID: ownerID,
	})
	require.NoError(t, err)

	_, err = tagRepo.DeleteTag(context.Background(), models.GetOneTagInput{ID: doomed.ID})
	require.NoError(t, err)

	reloaded, err := repo.GetOneBookmark(context.Background(), models.GetOneBookmarkInput{
		ID:     created.ID,
		UserID: ownerID,
	})
	require.NoError(t, err)
	require.Len(t, reloaded.Tags, 1)
	assert.Equal(t, "kept", reloaded.Tags[0].Slug)
}

func TestGetOneBookmarkScopedByOwner(t *testing.T) {
	repo, _ := newTestRepositories(t)

	created, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name:   "private",
		URL:    "https://example.com/private",
		UserID: ownerID,
	})
	require.NoError(t, err)

	_, err = repo.GetOneBookmark(context.Background(), models.GetOneBookmarkInput{
		ID:     created.ID,
		UserID: strangerID,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestGetAllBookmarksPagination(t *testing.T) {
	repo, _ := newTestRepositories(t)

	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
			Name:   name,
			URL:    "https://example.com/" + name,
			UserID: ownerID,
		})
		require.NoError(t, err)
	}
	_, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name:   "theirs",
		URL:    "https://example.com/theirs",
		UserID: strangerID,
	})
	require.NoError(t, err)

	page, err := repo.GetAllBookmarks(context.Background(), models.FilterBookmarksInput{
		Start:  1,
		Limit:  2,
		Filter: models.BookmarksFilter{UserID: ownerID},
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Name)
	assert.Equal(t, "c", page[1].Name)
}

func TestUpdateBookmarkMergesOnlySuppliedFields(t *testing.T) {
	repo, _ := newTestRepositories(t)

	created, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name:        "old name",
		URL:         "https://example.com",
		Description: "old description",
		UserID:      ownerID,
	})
	require.NoError(t, err)

	newName := "new name"
	updated, err := repo.UpdateBookmark(context.Background(), models.UpdateBookmarkInput{
		Filter: models.GetOneBookmarkInput{ID: created.ID, UserID: ownerID},
		Data:   models.UpdateBookmarkData{Name: &newName},
	})
	require.NoError(t, err)
	assert.Equal(t, "new name", updated.Name)
	assert.Equal(t, "old description", updated.Description)
	assert.Equal(t, "https://example.com", updated.URL)
}

func TestUpdateBookmarkReplacesTagList(t *testing.T) {
	repo, tagRepo := newTestRepositories(t)

	first, err := tagRepo.CreateTag(context.Background(), models.CreateTagInput{Name: "first"})
	require.NoError(t, err)
	second, err := tagRepo.CreateTag(context.Background(), models.CreateTagInput{Name: "second"})
	require.NoError(t, err)

	created, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name:   "tagged",
		URL:    "https://example.com",
		Tags:   []string{first.ID},
		UserID: ownerID,
	})
	require.NoError(t, err)

	newTags := []string{second.ID}
	updated, err := repo.UpdateBookmark(context.Background(), models.UpdateBookmarkInput{
		Filter: models.GetOneBookmarkInput{ID: created.ID, UserID: ownerID},
		Data:   models.UpdateBookmarkData{Tags: &newTags},
	})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "second", updated.Tags[0].Slug)
}

func TestDeleteBookmarkReturnsSnapshot(t *testing.T) {
	repo, _ := newTestRepositories(t)

	created, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name:   "doomed",
		URL:    "https://example.com/doomed",
		UserID: ownerID,
	})
	require.NoError(t, err)

	deleted, err := repo.DeleteBookmark(context.Background(), models.GetOneBookmarkInput{
		ID:     created.ID,
		UserID: ownerID,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "doomed", deleted.Name)

	_, err = repo.GetOneBookmark(context.Background(), models.GetOneBookmarkInput{
		ID:     created.ID,
		UserID: ownerID,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDeleteBookmarkScopedByOwner(t *testing.T) {
	repo, _ := newTestRepositories(t)

	created, err := repo.CreateBookmark(context.Background(), models.CreateBookmarkInput{
		Name:   "protected",
		URL:    "https://example.com/protected",
		UserID: ownerID,
	})
	require.NoError(t, err)

	_, err = repo.DeleteBookmark(context.Background(), models.GetOneBookmarkInput{
		ID:     created.ID,
		UserID: strangerID,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = repo.GetOneBookmark(context.Background(), models.GetOneBookmarkInput{
		ID:     created.ID,
		UserID: ownerID,
	})
	assert.NoError(t, err)
}
