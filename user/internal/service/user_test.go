package service

import (
	"context"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houseofabhilasha/storefront/internal/config"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	"github.com/houseofabhilasha/storefront/internal/repository"
	"github.com/houseofabhilasha/storefront/user/pkg/request"
)

type fakeUserStore struct {
	users map[string]repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]repository.User{}}
}

func (f *fakeUserStore) InsertUser(
	_ context.Context,
	email string,
	passwordHash string,
	emailConfirmed bool,
) (repository.User, error) {
	key := strings.ToLower(email)
	if _, ok := f.users[key]; ok {
		return repository.User{}, inErr.ErrEmailTaken
	}
	user := repository.User{
		ID:             uuid.New(),
		Email:          key,
		Password:       passwordHash,
		EmailConfirmed: emailConfirmed,
	}
	f.users[key] = user
	return user, nil
}

func (f *fakeUserStore) FindUserByEmail(
	_ context.Context,
	email string,
) (repository.User, error) {
	user, ok := f.users[strings.ToLower(email)]
	if !ok {
		return repository.User{}, inErr.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindUserById(
	_ context.Context,
	id uuid.UUID,
) (repository.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return repository.User{}, inErr.ErrUserNotFound
}

type fakeProfiles struct {
	upserts []repository.Profile
}

func (f *fakeProfiles) UpsertProfile(_ context.Context, profile repository.Profile) error {
	f.upserts = append(f.upserts, profile)
	return nil
}

func newUserFixture() (*UserService, *fakeUserStore, *fakeProfiles, config.Application) {
	cfg := config.Application{SecretKey: "test-secret"}
	users := newFakeUserStore()
	profiles := &fakeProfiles{}
	return NewUserService(users, profiles, cfg), users, profiles, cfg
}

func TestRegister(t *testing.T) {
	svc, users, profiles, _ := newUserFixture()
	c := context.Background()

	user, err := svc.Register(c, request.Register{
		Email:     "Shopper@Example.COM",
		Password:  "correct horse",
		FirstName: "Asha",
	})
	require.NoError(t, err)

	assert.Equal(t, "shopper@example.com", user.Email)
	stored := users.users["shopper@example.com"]
	assert.False(t, stored.EmailConfirmed)
	assert.NotEqual(t, "correct horse", stored.Password)
	require.Len(t, profiles.upserts, 1)
	assert.Equal(t, user.ID, profiles.upserts[0].UserID)

	_, err = svc.Register(c, request.Register{
		Email:     "shopper@example.com",
		Password:  "another pass",
		FirstName: "Asha",
	})
	assert.ErrorIs(t, err, inErr.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, _, cfg := newUserFixture()
	c := context.Background()

	registered, err := svc.Register(c, request.Register{
		Email:     "shopper@example.com",
		Password:  "correct horse",
		FirstName: "Asha",
	})
	require.NoError(t, err)

	t.Run("valid credentials return a parsable token", func(t *testing.T) {
		login, err := svc.Login(c, request.Login{
			Email:    "Shopper@example.com",
			Password: "correct horse",
		})
		require.NoError(t, err)
		require.NotEmpty(t, login.Token)
		assert.Equal(t, registered.ID, login.User.ID)

		token, err := jwt.Parse(
			login.Token,
			func(t *jwt.Token) (interface{}, error) { return []byte(cfg.SecretKey), nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		require.NoError(t, err)
		subject, err := token.Claims.GetSubject()
		require.NoError(t, err)
		assert.Equal(t, registered.ID.String(), subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(c, request.Login{
			Email:    "shopper@example.com",
			Password: "wrong horse",
		})
		assert.ErrorIs(t, err, inErr.ErrPasswordMismatch)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(c, request.Login{
			Email:    "nobody@example.com",
			Password: "correct horse",
		})
		assert.ErrorIs(t, err, inErr.ErrUserNotFound)
	})
}

func TestCurrentUser(t *testing.T) {
	svc, _, _, _ := newUserFixture()
	c := context.Background()

	registered, err := svc.Register(c, request.Register{
		Email:     "shopper@example.com",
		Password:  "correct horse",
		FirstName: "Asha",
	})
	require.NoError(t, err)

	t.Run("registered user", func(t *testing.T) {
		user, err := svc.CurrentUser(c, registered.ID)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, "shopper@example.com", user.Email)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.CurrentUser(c, uuid.New())
		assert.ErrorIs(t, err, inErr.ErrUserNotFound)
	})
}
