// Package models holds the entity and input/output models shared between the
// storage, repository and GraphQL layers.
package models

import "time"

// User is a registered account. Password always holds the bcrypt hash, never
// the plaintext; username and email are unique and immutable after sign-up.
// The GraphQL schema controls what reaches the API surface; the json tags
// exist for the file-backed document store.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tag is a reusable label. Slug is derived from Name and unique across all
// tags; it is regenerated whenever Name changes.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Bookmark belongs to exactly one user. TagIDs is an ordered list of weak tag
// references; Tags is materialized from it by the repository and never stored.
type Bookmark struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	TagIDs      []string  `json:"tagIds"`
	Tags        []Tag     `json:"tags"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SignUpInput carries the sign-up form fields.
type SignUpInput struct {
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	ConfirmPassword string `mapstructure:"confirmPassword"`
	Email           string `mapstructure:"email"`
}

// SignInInput carries the sign-in form fields.
type SignInInput struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// GetOneTagInput narrows the tag lookup; at least one field must be set.
type GetOneTagInput struct {
	ID   string `mapstructure:"id"`
	Slug string `mapstructure:"slug"`
}

// CreateTagInput carries the new tag name; the slug is derived.
type CreateTagInput struct {
	Name string `mapstructure:"name"`
}

// UpdateTagInput resolves a tag via Filter and renames it.
type UpdateTagInput struct {
	Filter GetOneTagInput `mapstructure:"filter"`
	Data   UpdateTagData  `mapstructure:"data"`
}

// UpdateTagData is the updatable portion of a tag.
type UpdateTagData struct {
	Name string `mapstructure:"name"`
}

// GetOneBookmarkInput narrows the bookmark lookup. UserID is never taken from
// the caller; the resolver layer injects the authenticated identity.
type GetOneBookmarkInput struct {
	ID     string `mapstructure:"id"`
	UserID string `mapstructure:"-"`
}

// FilterBookmarksInput selects a page of bookmarks.
type FilterBookmarksInput struct {
	Start  int             `mapstructure:"start"`
	Limit  int             `mapstructure:"limit"`
	Filter BookmarksFilter `mapstructure:"-"`
}

// BookmarksFilter restricts a bookmark listing to one owner.
type BookmarksFilter struct {
	UserID string
}

// CreateBookmarkInput carries the new bookmark fields. UserID is injected by
// the resolver layer from the authenticated identity.
type CreateBookmarkInput struct {
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Tags        []string `mapstructure:"tags"`
	URL         string   `mapstructure:"url"`
	UserID      string   `mapstructure:"-"`
}

// UpdateBookmarkInput resolves a bookmark via Filter and applies Data.
type UpdateBookmarkInput struct {
	Filter GetOneBookmarkInput `mapstructure:"filter"`
	Data   UpdateBookmarkData  `mapstructure:"data"`
}

// UpdateBookmarkData is a partial update: only non-nil fields are applied.
type UpdateBookmarkData struct {
	Name        *string   `mapstructure:"name"`
	Description *string   `mapstructure:"description"`
	Tags        *[]string `mapstructure:"tags"`
}

// AuthPayload is returned by signUp and signIn.
type AuthPayload struct {
	JWT  string `json:"jwt"`
	User *User  `json:"user"`
}

// Storage backend selectors, chosen by configuration.
const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)
