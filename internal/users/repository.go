// Package users implements the user repository: sign-up with batched
// validation, sign-in with non-distinguishable failures, and lookup by id.
package users

import (
	"context"

	"github.com/akraevsky/bkmrks/internal/apperrors"
	"github.com/akraevsky/bkmrks/internal/auth"
	"github.com/akraevsky/bkmrks/internal/db/storage"
	"github.com/akraevsky/bkmrks/internal/idformat"
	"github.com/akraevsky/bkmrks/internal/models"
)

// Repository performs validated user persistence against the storage backend.
type Repository struct {
	db storage.Storage
}

// New creates a user repository over the given storage.
func New(db storage.Storage) *Repository {
	return &Repository{db: db}
}

// SignUp validates the input, collecting every applicable error before
// failing once, then hashes the password and persists the user. The existence
// checks here are advisory; the storage unique indexes are the real
// enforcement under concurrent sign-ups.
func (r *Repository) SignUp(ctx context.Context, input models.SignUpInput) (*models.User, error) {
	fieldErrors := []apperrors.FieldError{}

	_, emailTaken, err := r.db.FindUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		fieldErrors = append(fieldErrors, apperrors.FieldError{
			Message: "email already in use",
			Field:   "email",
		})
	}

	_, usernameTaken, err := r.db.FindUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		fieldErrors = append(fieldErrors, apperrors.FieldError{
			Message: "username already in use",
			Field:   "username",
		})
	}

	if input.Password != input.ConfirmPassword {
		fieldErrors = append(fieldErrors, apperrors.FieldError{
			Message: "passwords do not match",
		})
	}

	if len(fieldErrors) > 0 {
		return nil, apperrors.InvalidUserInput(fieldErrors...)
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	newUser := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
	}

	if err := r.db.CreateUser(ctx, newUser); err != nil {
		return nil, err
	}

	return newUser, nil
}

// SignIn looks the user up by username and verifies the password. An unknown
// username and a wrong password produce the identical failure so callers
// cannot enumerate accounts.
func (r *Repository) SignIn(ctx context.Context, input models.SignInInput) (*models.User, error) {
	invalidCredentials := apperrors.InvalidUserInput(apperrors.FieldError{
		Message: "invalid username or password",
	})

	usr, found, err := r.db.FindUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, invalidCredentials
	}

	if !auth.CheckPassword(usr.Password, input.Password) {
		return nil, invalidCredentials
	}

	return usr, nil
}

// GetOneUser validates the id format, then fetches the user.
func (r *Repository) GetOneUser(ctx context.Context, id string) (*models.User, error) {
	if err := idformat.Check(id); err != nil {
		return nil, err
	}

	usr, found, err := r.db.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NotFound()
	}

	return usr, nil
}
