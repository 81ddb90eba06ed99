package gql

import (
	"github.com/graphql-go/graphql"

	"github.com/akraevsky/bkmrks/internal/auth"
	"github.com/akraevsky/bkmrks/internal/models"
)

func (r *Resolver) self(p graphql.ResolveParams) (interface{}, error) {
	identity, err := auth.Require(p.Context)
	if err != nil {
		return nil, err
	}

	return r.users.GetOneUser(p.Context, identity.UserID)
}

func (r *Resolver) signUp(p graphql.ResolveParams) (interface{}, error) {
	var input models.SignUpInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}

	usr, err := r.users.SignUp(p.Context, input)
	if err != nil {
		return nil, err
	}

	return r.issueAuthPayload(p, usr)
}

func (r *Resolver) signIn(p graphql.ResolveParams) (interface{}, error) {
	var input models.SignInInput
	if err := decodeInput(p.Args, &input); err != nil {
		return nil, err
	}

	usr, err := r.users.SignIn(p.Context, input)
	if err != nil {
		return nil, err
	}

	return r.issueAuthPayload(p, usr)
}

func (r *Resolver) issueAuthPayload(p graphql.ResolveParams, usr *models.User) (interface{}, error) {
	token, err := r.tokens.Issue(usr.ID, usr.Username)
	if err != nil {
		return nil, err
	}

	r.setAuthCookie(p.Context, token)

	return &models.AuthPayload{
		JWT:  token,
		User: usr,
	}, nil
}

// signOut requires an identity: only a signed-in caller can clear the cookie.
func (r *Resolver) signOut(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.Require(p.Context); err != nil {
		return nil, err
	}

	r.clearAuthCookie(p.Context)

	return true, nil
}
