package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const upsertProfileQuery = `
insert into profiles (user_id, first_name, last_name, email, address, contact_no)
values ($1, $2, $3, $4, $5, $6)
on conflict (user_id) do update
set first_name = excluded.first_name,
    last_name  = excluded.last_name,
    email      = excluded.email,
    address    = excluded.address,
    contact_no = excluded.contact_no,
    updated_at = now();
`

func (r *ProfileRepository) UpsertProfile(c context.Context, profile Profile) error {
	c, span := inOtel.Tracer.Start(c, "ProfileRepository UpsertProfile")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProfileRepository UpsertProfile").
		Str(log.KeyUserID, profile.UserID.String()).
		Logger()

	logger.Info().Msg("upserting profile")
	_, err := r.pool.Exec(
		c,
		upsertProfileQuery,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		strings.ToLower(profile.Email),
		profile.Address,
		profile.ContactNo,
	)
	if err != nil {
		err = fmt.Errorf("failed upserting profile with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}
	logger.Info().Msg("upserted profile")

	return nil
}
