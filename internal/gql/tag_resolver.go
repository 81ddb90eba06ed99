package gql

import (
	"github.com/graphql-go/graphql"

	"github.com/akraevsky/bkmrks/internal/models"
)

// Tag operations are not identity-scoped: any caller, authenticated or not,
// may read and mutate tags.

func (r *Resolver) tag(p graphql.ResolveParams) (interface{}, error) {
	var input models.GetOneTagInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}

	return r.tags.GetOneTag(p.Context, input)
}

func (r *Resolver) allTags(p graphql.ResolveParams) (interface{}, error) {
	return r.tags.GetAllTags(p.Context)
}

func (r *Resolver) createTag(p graphql.ResolveParams) (interface{}, error) {
	var input models.CreateTagInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}

	return r.tags.CreateTag(p.Context, input)
}

func (r *Resolver) updateTag(p graphql.ResolveParams) (interface{}, error) {
	var input models.UpdateTagInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}

	return r.tags.UpdateTag(p.Context, input)
}

func (r *Resolver) deleteTag(p graphql.ResolveParams) (interface{}, error) {
	var input models.GetOneTagInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}

	return r.tags.DeleteTag(p.Context, input)
}
