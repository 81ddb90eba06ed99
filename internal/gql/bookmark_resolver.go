package gql

import (
	"github.com/graphql-go/graphql"

	"github.com/akraevsky/bkmrks/internal/auth"
	"github.com/akraevsky/bkmrks/internal/models"
)

// Every bookmark operation requires an identity; the caller's id is injected
// into the repository input so each user only ever sees their own records.

func (r *Resolver) bookmark(p graphql.ResolveParams) (interface{}, error) {
	identity, err := auth.Require(p.Context)
	if err != nil {
		return nil, err
	}

	var input models.GetOneBookmarkInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}
	input.UserID = identity.UserID

	return r.bookmarks.GetOneBookmark(p.Context, input)
}

func (r *Resolver) allBookmarks(p graphql.ResolveParams) (interface{}, error) {
	identity, err := auth.Require(p.Context)
	if err != nil {
		return nil, err
	}

	var input models.FilterBookmarksInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}
	input.Filter = models.BookmarksFilter{UserID: identity.UserID}

	return r.bookmarks.GetAllBookmarks(p.Context, input)
}

func (r *Resolver) createBookmark(p graphql.ResolveParams) (interface{}, error) {
	identity, err := auth.Require(p.Context)
	if err != nil {
		return nil, err
	}

	var input models.CreateBookmarkInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}
	input.UserID = identity.UserID

	return r.bookmarks.CreateBookmark(p.Context, input)
}

func (r *Resolver) updateBookmark(p graphql.ResolveParams) (interface{}, error) {
	identity, err := auth.Require(p.Context)
	if err != nil {
		return nil, err
	}

	var input models.UpdateBookmarkInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}
	input.Filter.UserID = identity.UserID

	return r.bookmarks.UpdateBookmark(p.Context, input)
}

func (r *Resolver) deleteBookmark(p graphql.ResolveParams) (interface{}, error) {
	identity, err := auth.Require(p.Context)
	if err != nil {
		return nil, err
	}

	var input models.GetOneBookmarkInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}
	input.UserID = identity.UserID

	return r.bookmarks.DeleteBookmark(p.Context, input)
}
