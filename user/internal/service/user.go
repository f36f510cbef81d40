package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/houseofabhilasha/storefront/internal/common"
	"github.com/houseofabhilasha/storefront/internal/common/constants"
	"github.com/houseofabhilasha/storefront/internal/config"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
	"github.com/houseofabhilasha/storefront/internal/repository"
	"github.com/houseofabhilasha/storefront/user/pkg/request"
	"github.com/houseofabhilasha/storefront/user/pkg/response"
)

type UserStore interface {
	InsertUser(
		c context.Context,
		email string,
		passwordHash string,
		emailConfirmed bool,
	) (repository.User, error)
	FindUserByEmail(c context.Context, email string) (repository.User, error)
	FindUserById(c context.Context, id uuid.UUID) (repository.User, error)
}

type ProfileStore interface {
	UpsertProfile(c context.Context, profile repository.Profile) error
}

type UserService struct {
	users    UserStore
	profiles ProfileStore
	cfg      config.Application
}

func NewUserService(users UserStore, profiles ProfileStore, cfg config.Application) *UserService {
	return &UserService{users: users, profiles: profiles, cfg: cfg}
}

func (s *UserService) Register(
	c context.Context,
	reqBody request.Register,
) (response.User, error) {
	c, span := inOtel.Tracer.Start(c, "UserService Register")
	defer span.End()

	email := strings.ToLower(reqBody.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Register").
		Str(log.KeyEmail, email).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "hash password").Logger()
	logger.Info().Msg("hashing password")
	hash, err := bcrypt.GenerateFromPassword([]byte(reqBody.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.User{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "insert user").Logger()
	logger.Info().Msg("inserting user")
	user, err := s.users.InsertUser(c, email, string(hash), false)
	if err != nil {
		if errors.Is(err, inErr.ErrEmailTaken) {
			logger.Warn().Msg("account already exists")
			return response.User{}, inErr.ErrEmailTaken
		}
		err = fmt.Errorf("failed inserting user with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.User{}, err
	}
	logger = logger.With().Str(log.KeyUserID, user.ID.String()).Logger()
	logger.Info().Msg("inserted user")

	logger = logger.With().Str(log.KeyProcess, "upsert profile").Logger()
	logger.Info().Msg("upserting profile")
	err = s.profiles.UpsertProfile(c, repository.Profile{
		UserID:    user.ID,
		FirstName: reqBody.FirstName,
		LastName:  reqBody.LastName,
		Email:     email,
		Address:   reqBody.Address,
		ContactNo: reqBody.ContactNo,
	})
	if err != nil {
		err = fmt.Errorf("failed upserting profile with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.User{}, err
	}
	logger.Info().Msg("upserted profile")

	return response.User{ID: user.ID, Email: user.Email}, nil
}

func (s *UserService) Login(
	c context.Context,
	reqBody request.Login,
) (response.Login, error) {
	c, span := inOtel.Tracer.Start(c, "UserService Login")
	defer span.End()

	email := strings.ToLower(reqBody.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyEmail, email).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "find user").Logger()
	logger.Info().Msg("finding user by email")
	user, err := s.users.FindUserByEmail(c, email)
	if err != nil {
		if errors.Is(err, inErr.ErrUserNotFound) {
			logger.Warn().Msg("user not found")
			return response.Login{}, inErr.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding user by email with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.Login{}, err
	}
	logger = logger.With().Str(log.KeyUserID, user.ID.String()).Logger()
	logger.Info().Msg("found user by email")

	logger = logger.With().Str(log.KeyProcess, "verify password").Logger()
	logger.Info().Msg("verifying password")
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqBody.Password)); err != nil {
		logger.Warn().Msg("password mismatch")
		inOtel.RecordError(inErr.ErrPasswordMismatch, span)
		return response.Login{}, inErr.ErrPasswordMismatch
	}
	logger.Info().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "create token").Logger()
	logger.Info().Msg("creating jwt token")
	token, err := common.CreateJwtToken(c, user.ID, constants.AppMainStorefront, s.cfg)
	if err != nil {
		err = fmt.Errorf("failed creating jwt token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.Login{}, err
	}
	logger.Info().Msg("created jwt token")

	return response.Login{
		Token: token,
		User:  response.User{ID: user.ID, Email: user.Email},
	}, nil
}

// CurrentUser resolves the account behind an authenticated request, keyed by
// the token subject.
func (s *UserService) CurrentUser(
	c context.Context,
	userId uuid.UUID,
) (response.User, error) {
	c, span := inOtel.Tracer.Start(c, "UserService CurrentUser")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService CurrentUser").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger.Info().Msg("finding user by id")
	user, err := s.users.FindUserById(c, userId)
	if err != nil {
		if errors.Is(err, inErr.ErrUserNotFound) {
			logger.Warn().Msg("user not found")
			return response.User{}, inErr.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding user by id with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.User{}, err
	}
	logger.Info().Msg("found user by id")

	return response.User{ID: user.ID, Email: user.Email}, nil
}

var (
	_ UserStore    = (*repository.UserRepository)(nil)
	_ ProfileStore = (*repository.ProfileRepository)(nil)
)
