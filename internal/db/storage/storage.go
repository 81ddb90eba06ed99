// Package storage declares the persistence interface shared by all storage
// backends, plus the filter types and sentinel errors they have in common.
package storage

import (
	"context"
	"errors"

	"github.com/akraevsky/bkmrks/internal/models"
)

// ErrConflict is returned when an insert or update violates a uniqueness
// constraint (username, email or tag slug). Under concurrent writers this is
// the actual enforcement mechanism; any prior existence check is advisory.
var ErrConflict = errors.New("record violates a unique constraint")

// TagFilter narrows a tag lookup. Both fields may be set; they narrow the
// match rather than act as alternatives.
type TagFilter struct {
	ID   string
	Slug string
}

// BookmarkFilter narrows a bookmark lookup. An empty filter matches the first
// document in natural (insertion) order.
type BookmarkFilter struct {
	ID     string
	UserID string
}

// BookmarkQuery selects a page of bookmarks in insertion order.
// Start is a skip count, Limit a max count; zero means unbounded.
type BookmarkQuery struct {
	UserID string
	Start  int
	Limit  int
}

// Storage is implemented by the PostgreSQL, JSON-file and in-memory backends.
// Find methods report absence through the found flag, never through an error.
type Storage interface {
	CreateUser(ctx context.Context, usr *models.User) error

	FindUserByID(ctx context.Context, id string) (*models.User, bool, error)

	FindUserByUsername(ctx context.Context, username string) (*models.User, bool, error)

	FindUserByEmail(ctx context.Context, email string) (*models.User, bool, error)

	CreateTag(ctx context.Context, tag *models.Tag) error

	FindOneTag(ctx context.Context, filter TagFilter) (*models.Tag, bool, error)

	FindAllTags(ctx context.Context) ([]models.Tag, error)

	FindTagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error)

	UpdateTag(ctx context.Context, tag *models.Tag) error

	DeleteTag(ctx context.Context, id string) error

	CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error

	FindOneBookmark(ctx context.Context, filter BookmarkFilter) (*models.Bookmark, bool, error)

	FindAllBookmarks(ctx context.Context, query BookmarkQuery) ([]models.Bookmark, error)

	UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error

	DeleteBookmark(ctx context.Context, id string) error

	Ping(ctx context.Context) error

	Close() error
}
