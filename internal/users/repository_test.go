package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akraevsky/bkmrks/internal/apperrors"
	"github.com/akraevsky/bkmrks/internal/auth"
	"github.com/akraevsky/bkmrks/internal/db/memorystorage"
	"github.com/akraevsky/bkmrks/internal/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	theStorage, err := memorystorage.New()
	require.NoError(t, err)

	return New(theStorage)
}

func signUpInput() models.SignUpInput {
	return models.SignUpInput{
		Username:        "alice",
		Password:        "pw",
		ConfirmPassword: "pw",
		Email:           "alice@example.com",
	}
}

func TestSignUp(t *testing.T) {
	repo := newTestRepository(t)

	usr, err := repo.SignUp(context.Background(), signUpInput())
	require.NoError(t, err)

	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "alice", usr.Username)
	assert.Equal(t, "alice@example.com", usr.Email)
	assert.NotEqual(t, "pw", usr.Password, "the stored password should be hashed")
	assert.True(t, auth.CheckPassword(usr.Password, "pw"))
}

func TestSignUpCollectsAllErrors(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.SignUp(context.Background(), signUpInput())
	require.NoError(t, err)

	input := signUpInput()
	input.ConfirmPassword = "other"
	_, err = repo.SignUp(context.Background(), input)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindInvalidUserInput, appErr.Kind)
	assert.Equal(
		t,
		[]apperrors.FieldError{
			{Message: "email already in use", Field: "email"},
			{Message: "username already in use", Field: "username"},
			{Message: "passwords do not match"},
		},
		appErr.Fields,
	)
}

func TestSignUpDuplicateEmailOnly(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.SignUp(context.Background(), signUpInput())
	require.NoError(t, err)

	input := signUpInput()
	input.Username = "bob"
	_, err = repo.SignUp(context.Background(), input)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(
		t,
		[]apperrors.FieldError{{Message: "email already in use", Field: "email"}},
		appErr.Fields,
	)
}

func TestSignUpPasswordMismatchAlwaysFails(t *testing.T) {
	repo := newTestRepository(t)

	input := signUpInput()
	input.ConfirmPassword = "different"
	_, err := repo.SignUp(context.Background(), input)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindInvalidUserInput, appErr.Kind)
	assert.Equal(t, []apperrors.FieldError{{Message: "passwords do not match"}}, appErr.Fields)
}

func TestSignIn(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.SignUp(context.Background(), signUpInput())
	require.NoError(t, err)

	usr, err := repo.SignIn(context.Background(), models.SignInInput{
		Username: "alice",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, usr.ID)
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.SignUp(context.Background(), signUpInput())
	require.NoError(t, err)

	_, unknownUserErr := repo.SignIn(context.Background(), models.SignInInput{
		Username: "nobody",
		Password: "pw",
	})
	_, wrongPasswordErr := repo.SignIn(context.Background(), models.SignInInput{
		Username: "alice",
		Password: "wrong",
	})

	require.Error(t, unknownUserErr)
	require.Error(t, wrongPasswordErr)
	assert.Equal(t, unknownUserErr, wrongPasswordErr)
}

func TestGetOneUser(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.SignUp(context.Background(), signUpInput())
	require.NoError(t, err)

	usr, err := repo.GetOneUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Username, usr.Username)
}

func TestGetOneUserInvalidIDFormat(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetOneUser(context.Background(), "not-a-uuid")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidIDFormat))
}

func TestGetOneUserNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetOneUser(context.Background(), "42a0fac6-04b9-4435-a30a-77a1e20ec663")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
