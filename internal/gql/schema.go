// Package gql binds the GraphQL schema to the entity repositories. Tag
// queries and mutations are open to any caller; everything touching bookmarks
// or the current user requires a verified identity.
package gql

import (
	"github.com/graphql-go/graphql"
	"github.com/mitchellh/mapstructure"

	"github.com/akraevsky/bkmrks/internal/auth"
	"github.com/akraevsky/bkmrks/internal/bookmarks"
	"github.com/akraevsky/bkmrks/internal/tags"
	"github.com/akraevsky/bkmrks/internal/users"
)

// Resolver holds the repositories and token machinery the resolver functions
// delegate to.
type Resolver struct {
	users          *users.Repository
	tags           *tags.Repository
	bookmarks      *bookmarks.Repository
	tokens         *auth.Manager
	authCookieName string
}

// NewResolver wires the resolver set.
func NewResolver(
	usersRepo *users.Repository,
	tagsRepo *tags.Repository,
	bookmarksRepo *bookmarks.Repository,
	tokens *auth.Manager,
	authCookieName string,
) *Resolver {
	return &Resolver{
		users:          usersRepo,
		tags:           tagsRepo,
		bookmarks:      bookmarksRepo,
		tokens:         tokens,
		authCookieName: authCookieName,
	}
}

// decodeInput maps the `input` argument onto a typed input struct.
func decodeInput(args map[string]interface{}, target interface{}) error {
	raw := args["input"]
	if raw == nil {
		raw = map[string]interface{}{}
	}

	return mapstructure.Decode(raw, target)
}

var tagType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Tag",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"slug": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"jwt":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"user": &graphql.Field{Type: graphql.NewNonNull(userType)},
	},
})

var bookmarkType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Bookmark",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"tags":        &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(tagType))},
		"url":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var getOneTagInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "GetOneTagInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"id":   &graphql.InputObjectFieldConfig{Type: graphql.ID},
		"slug": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var createTagInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateTagInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var updateTagPayloadType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateTagPayload",
	Fields: graphql.InputObjectConfigFieldMap{
		"name": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var updateTagInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateTagInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"filter": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(getOneTagInputType)},
		"data":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(updateTagPayloadType)},
	},
})

var signUpInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "SignUpInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"username":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"confirmPassword": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var signInInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "SignInInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"username": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var getOneBookmarkInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "GetOneBookmarkInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"id": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
	},
})

var filterBookmarksInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "FilterBookmarksInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"start": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"limit": &graphql.InputObjectFieldConfig{Type: graphql.Int},
	},
})

var createBookmarkInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateBookmarkInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"tags":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.ID))},
		"url":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var updateBookmarkPayloadType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateBookmarkPayload",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"tags":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.ID)},
	},
})

var updateBookmarkInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateBookmarkInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"filter": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(getOneBookmarkInputType)},
		"data":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(updateBookmarkPayloadType)},
	},
})

func inputArg(inputType graphql.Input, required bool) graphql.FieldConfigArgument {
	if required {
		inputType = graphql.NewNonNull(inputType)
	}

	return graphql.FieldConfigArgument{
		"input": &graphql.ArgumentConfig{Type: inputType},
	}
}

// NewSchema builds the executable schema bound to the resolver set.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"tag": &graphql.Field{
				Type:    graphql.NewNonNull(tagType),
				Args:    inputArg(getOneTagInputType, true),
				Resolve: r.tag,
			},
			"tags": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(tagType))),
				Resolve: r.allTags,
			},
			"self": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Resolve: r.self,
			},
			"bookmark": &graphql.Field{
				Type:    graphql.NewNonNull(bookmarkType),
				Args:    inputArg(getOneBookmarkInputType, true),
				Resolve: r.bookmark,
			},
			"bookmarks": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookmarkType))),
				Args:    inputArg(filterBookmarksInputType, false),
				Resolve: r.allBookmarks,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createTag": &graphql.Field{
				Type:    graphql.NewNonNull(tagType),
				Args:    inputArg(createTagInputType, true),
				Resolve: r.createTag,
			},
			"updateTag": &graphql.Field{
				Type:    graphql.NewNonNull(tagType),
				Args:    inputArg(updateTagInputType, true),
				Resolve: r.updateTag,
			},
			"deleteTag": &graphql.Field{
				Type:    graphql.NewNonNull(tagType),
				Args:    inputArg(getOneTagInputType, true),
				Resolve: r.deleteTag,
			},
			"signUp": &graphql.Field{
				Type:    graphql.NewNonNull(authPayloadType),
				Args:    inputArg(signUpInputType, true),
				Resolve: r.signUp,
			},
			"signIn": &graphql.Field{
				Type:    graphql.NewNonNull(authPayloadType),
				Args:    inputArg(signInInputType, true),
				Resolve: r.signIn,
			},
			"signOut": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: r.signOut,
			},
			"createBookmark": &graphql.Field{
				Type:    graphql.NewNonNull(bookmarkType),
				Args:    inputArg(createBookmarkInputType, true),
				Resolve: r.createBookmark,
			},
			"updateBookmark": &graphql.Field{
				Type:    graphql.NewNonNull(bookmarkType),
				Args:    inputArg(updateBookmarkInputType, true),
				Resolve: r.updateBookmark,
			},
			"deleteBookmark": &graphql.Field{
				Type:    graphql.NewNonNull(bookmarkType),
				Args:    inputArg(getOneBookmarkInputType, true),
				Resolve: r.deleteBookmark,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
