// Package tags implements the tag repository. Tags are shared between all
// users; slug uniqueness is the only cross-record invariant and is held by
// the storage layer.
package tags

import (
	"context"
	"errors"

	"github.com/gosimple/slug"

	"github.com/akraevsky/bkmrks/internal/apperrors"
	"github.com/akraevsky/bkmrks/internal/db/storage"
	"github.com/akraevsky/bkmrks/internal/models"
)

// Repository performs validated tag persistence against the storage backend.
type Repository struct {
	db storage.Storage
}

// New creates a tag repository over the given storage.
func New(db storage.Storage) *Repository {
	return &Repository{db: db}
}

// GetOneTag resolves a tag by id and/or slug; both fields narrow the match.
// Supplying neither is a caller bug and fails with InvalidFunctionInput.
func (r *Repository) GetOneTag(ctx context.Context, input models.GetOneTagInput) (*models.Tag, error) {
	if input.ID == "" && input.Slug == "" {
		return nil, apperrors.InvalidFunctionInput()
	}

	tag, found, err := r.db.FindOneTag(ctx, storage.TagFilter{
		ID:   input.ID,
		Slug: input.Slug,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NotFound()
	}

	return tag, nil
}

// GetAllTags returns every tag in insertion order.
func (r *Repository) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	return r.db.FindAllTags(ctx)
}

// CreateTag derives the slug from the name and persists the tag. A duplicate
// slug fails at the storage layer.
func (r *Repository) CreateTag(ctx context.Context, input models.CreateTagInput) (*models.Tag, error) {
	if len(input.Name) == 0 {
		return nil, errors.New("name can't be empty")
	}

	tag := &models.Tag{
		Name: input.Name,
		Slug: slug.Make(input.Name),
	}

	if err := r.db.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}

// UpdateTag resolves the target via GetOneTag, renames it and regenerates the
// slug from the new name.
func (r *Repository) UpdateTag(ctx context.Context, input models.UpdateTagInput) (*models.Tag, error) {
	tag, err := r.GetOneTag(ctx, input.Filter)
	if err != nil {
		return nil, err
	}

	tag.Name = input.Data.Name
	tag.Slug = slug.Make(input.Data.Name)

	if err := r.db.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}

// DeleteTag resolves the target via GetOneTag, deletes it by id and returns
// the pre-deletion snapshot. Bookmarks referencing the tag are not touched.
func (r *Repository) DeleteTag(ctx context.Context, input models.GetOneTagInput) (*models.Tag, error) {
	tag, err := r.GetOneTag(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := r.db.DeleteTag(ctx, tag.ID); err != nil {
		return nil, err
	}

	return tag, nil
}
