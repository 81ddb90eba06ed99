// Package bookmarks implements the bookmark repository. Every operation on
// the authenticated surface is scoped by (id, userId); the resolver layer
// injects the owner id and this package trusts it.
package bookmarks

import (
	"context"

	"github.com/akraevsky/bkmrks/internal/apperrors"
	"github.com/akraevsky/bkmrks/internal/db/storage"
	"github.com/akraevsky/bkmrks/internal/models"
)

// Repository performs validated bookmark persistence against the storage
// backend and materializes referenced tags on every returned bookmark.
type Repository struct {
	db storage.Storage
}

// New creates a bookmark repository over the given storage.
func New(db storage.Storage) *Repository {
	return &Repository{db: db}
}

// materializeTags resolves the bookmark's ordered tag references into full
// tag documents, skipping dangling ids. An explicit step rather than a
// storage hook.
func (r *Repository) materializeTags(ctx context.Context, bookmark *models.Bookmark) error {
	bookmark.Tags = []models.Tag{}
	if len(bookmark.TagIDs) == 0 {
		return nil
	}

	tagsByIDs, err := r.db.FindTagsByIDs(ctx, bookmark.TagIDs)
	if err != nil {
		return err
	}
	bookmark.Tags = tagsByIDs

	return nil
}

// GetOneBookmark resolves a bookmark; id and userId narrow the match
// incrementally. An empty filter matches the first document in natural order;
// the resolver layer always supplies userId, so the public surface never
// reaches that case.
func (r *Repository) GetOneBookmark(ctx context.Context, input models.GetOneBookmarkInput) (*models.Bookmark, error) {
	bookmark, found, err := r.db.FindOneBookmark(ctx, storage.BookmarkFilter{
		ID:     input.ID,
		UserID: input.UserID,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NotFound()
	}

	if err := r.materializeTags(ctx, bookmark); err != nil {
		return nil, err
	}

	return bookmark, nil
}

// GetAllBookmarks returns a page of bookmarks in insertion order, optionally
// restricted to one owner via the filter.
func (r *Repository) GetAllBookmarks(ctx context.Context, input models.FilterBookmarksInput) ([]models.Bookmark, error) {
	found, err := r.db.FindAllBookmarks(ctx, storage.BookmarkQuery{
		UserID: input.Filter.UserID,
		Start:  input.Start,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, err
	}

	for i := range found {
		if err := r.materializeTags(ctx, &found[i]); err != nil {
			return nil, err
		}
	}

	return found, nil
}

// CreateBookmark validates the input and persists the bookmark. Empty name
// and url are collected into a single InvalidUserInput failure; a missing
// userId is a misuse of this function by the calling layer and fails
// immediately with InvalidFunctionInput.
func (r *Repository) CreateBookmark(ctx context.Context, input models.CreateBookmarkInput) (*models.Bookmark, error) {
	fieldErrors := []apperrors.FieldError{}

	if input.Name == "" {
		fieldErrors = append(fieldErrors, apperrors.FieldError{
			Message: "name cannot be empty",
			Field:   "name",
		})
	}

	if input.UserID == "" {
		return nil, apperrors.InvalidFunctionInput()
	}

	if input.URL == "" {
		fieldErrors = append(fieldErrors, apperrors.FieldError{
			Message: "url cannot be empty",
			Field:   "url",
		})
	}

	if len(fieldErrors) != 0 {
		return nil, apperrors.InvalidUserInput(fieldErrors...)
	}

	bookmark := &models.Bookmark{
		Name:        input.Name,
		URL:         input.URL,
		Description: input.Description,
		TagIDs:      input.Tags,
		UserID:      input.UserID,
	}

	if err := r.db.CreateBookmark(ctx, bookmark); err != nil {
		return nil, err
	}

	if err := r.materializeTags(ctx, bookmark); err != nil {
		return nil, err
	}

	return bookmark, nil
}

// UpdateBookmark resolves the target via GetOneBookmark and merges only the
// supplied fields before persisting.
func (r *Repository) UpdateBookmark(ctx context.Context, input models.UpdateBookmarkInput) (*models.Bookmark, error) {
	bookmark, err := r.GetOneBookmark(ctx, input.Filter)
	if err != nil {
		return nil, err
	}

	if input.Data.Name != nil {
		bookmark.Name = *input.Data.Name
	}
	if input.Data.Description != nil {
		bookmark.Description = *input.Data.Description
	}
	if input.Data.Tags != nil {
		bookmark.TagIDs = *input.Data.Tags
	}

	if err := r.db.UpdateBookmark(ctx, bookmark); err != nil {
		return nil, err
	}

	if err := r.materializeTags(ctx, bookmark); err != nil {
		return nil, err
	}

	return bookmark, nil
}

// DeleteBookmark resolves the target via GetOneBookmark, deletes it and
// returns the pre-deletion snapshot.
func (r *Repository) DeleteBookmark(ctx context.Context, input models.GetOneBookmarkInput) (*models.Bookmark, error) {
	bookmark, err := r.GetOneBookmark(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := r.db.DeleteBookmark(ctx, bookmark.ID); err != nil {
		return nil, err
	}

	return bookmark, nil
}
