package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

const uniqueViolationCode = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const insertUserQuery = `
insert into users (id, email, password, email_confirmed)
values ($1, $2, $3, $4)
returning id, email, password, email_confirmed, created_at, updated_at;
`

func (r *UserRepository) InsertUser(
	c context.Context,
	email string,
	passwordHash string,
	emailConfirmed bool,
) (User, error) {
	c, span := inOtel.Tracer.Start(c, "UserRepository InsertUser")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserRepository InsertUser").
		Str(log.KeyEmail, email).
		Logger()

	logger.Info().Msg("inserting user")
	row := r.pool.QueryRow(
		c,
		insertUserQuery,
		uuid.New(),
		strings.ToLower(email),
		passwordHash,
		emailConfirmed,
	)
	user := User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.EmailConfirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			err = inErr.ErrEmailTaken
			logger.Error().Err(err).Msg(err.Error())
			inOtel.RecordError(err, span)
			return User{}, err
		}
		err = fmt.Errorf("failed inserting user with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return User{}, err
	}
	logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("inserted user")

	return user, nil
}

const findUserByEmailQuery = `
select id, email, password, email_confirmed, created_at, updated_at
from users
where email = $1;
`

func (r *UserRepository) FindUserByEmail(c context.Context, email string) (User, error) {
	c, span := inOtel.Tracer.Start(c, "UserRepository FindUserByEmail")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserRepository FindUserByEmail").
		Str(log.KeyEmail, email).
		Logger()

	logger.Info().Msg("finding user by email")
	row := r.pool.QueryRow(c, findUserByEmailQuery, strings.ToLower(email))
	user := User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.EmailConfirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, inErr.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding user by email with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return User{}, err
	}
	logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("found user by email")

	return user, nil
}

const findUserByIdQuery = `
select id, email, password, email_confirmed, created_at, updated_at
from users
where id = $1;
`

func (r *UserRepository) FindUserById(c context.Context, id uuid.UUID) (User, error) {
	c, span := inOtel.Tracer.Start(c, "UserRepository FindUserById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserRepository FindUserById").
		Str(log.KeyUserID, id.String()).
		Logger()

	row := r.pool.QueryRow(c, findUserByIdQuery, id)
	user := User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.EmailConfirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, inErr.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding user by id with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return User{}, err
	}

	return user, nil
}
