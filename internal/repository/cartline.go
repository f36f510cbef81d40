package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

type CartLineRepository struct {
	pool *pgxpool.Pool
}

func NewCartLineRepository(pool *pgxpool.Pool) *CartLineRepository {
	return &CartLineRepository{pool: pool}
}

func scanCartLine(row pgx.Row) (CartLine, error) {
	line := CartLine{}
	unitPrice := pgtype.Numeric{}
	err := row.Scan(
		&line.ID,
		&line.UserID,
		&line.ProductID,
		&line.ProductName,
		&line.ProductImage,
		&unitPrice,
		&line.Quantity,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err != nil {
		return CartLine{}, err
	}
	line.UnitPrice = DecimalFromNumeric(unitPrice)
	return line, nil
}

const listLinesQuery = `
select id, user_id, product_id, product_name, coalesce(product_image, ''), unit_price, quantity, created_at, updated_at
from cart_lines
where user_id = $1
order by created_at;
`

func (r *CartLineRepository) ListLines(c context.Context, userId uuid.UUID) ([]CartLine, error) {
	c, span := inOtel.Tracer.Start(c, "CartLineRepository ListLines")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartLineRepository ListLines").
		Str(log.KeyUserID, userId.String()).
		Logger()

	rows, err := r.pool.Query(c, listLinesQuery, userId)
	if err != nil {
		err = fmt.Errorf("failed listing cart lines with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return nil, err
	}
	defer rows.Close()

	lines := []CartLine{}
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			err = fmt.Errorf("failed scanning cart line with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			inOtel.RecordError(err, span)
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		err = fmt.Errorf("failed iterating cart lines with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return nil, err
	}

	return lines, nil
}

const findLineQuery = `
select id, user_id, product_id, product_name, coalesce(product_image, ''), unit_price, quantity, created_at, updated_at
from cart_lines
where user_id = $1 and product_id = $2;
`

func (r *CartLineRepository) FindLine(
	c context.Context,
	userId uuid.UUID,
	productId string,
) (CartLine, error) {
	c, span := inOtel.Tracer.Start(c, "CartLineRepository FindLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartLineRepository FindLine").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, productId).
		Logger()

	line, err := scanCartLine(r.pool.QueryRow(c, findLineQuery, userId, productId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CartLine{}, inErr.ErrLineNotFound
		}
		err = fmt.Errorf("failed finding cart line with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return CartLine{}, err
	}

	return line, nil
}

const insertLineQuery = `
insert into cart_lines (id, user_id, product_id, product_name, product_image, unit_price, quantity)
values ($1, $2, $3, $4, $5, $6, $7)
returning id, user_id, product_id, product_name, coalesce(product_image, ''), unit_price, quantity, created_at, updated_at;
`

func (r *CartLineRepository) InsertLine(c context.Context, line CartLine) (CartLine, error) {
	c, span := inOtel.Tracer.Start(c, "CartLineRepository InsertLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartLineRepository InsertLine").
		Str(log.KeyUserID, line.UserID.String()).
		Str(log.KeyProductID, line.ProductID).
		Logger()

	id := line.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	logger.Info().Msg("inserting cart line")
	inserted, err := scanCartLine(r.pool.QueryRow(
		c,
		insertLineQuery,
		id,
		line.UserID,
		line.ProductID,
		line.ProductName,
		line.ProductImage,
		NumericFromDecimal(line.UnitPrice),
		line.Quantity,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			logger.Warn().Msg("cart line already exists")
			return CartLine{}, inErr.ErrDuplicateLine
		}
		err = fmt.Errorf("failed inserting cart line with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return CartLine{}, err
	}
	logger.Info().Msg("inserted cart line")

	return inserted, nil
}

const incrementQuantityQuery = `
update cart_lines
set quantity = quantity + $3, updated_at = now()
where user_id = $1 and product_id = $2
returning id, user_id, product_id, product_name, coalesce(product_image, ''), unit_price, quantity, created_at, updated_at;
`

func (r *CartLineRepository) IncrementQuantity(
	c context.Context,
	userId uuid.UUID,
	productId string,
	delta int32,
) (CartLine, error) {
	c, span := inOtel.Tracer.Start(c, "CartLineRepository IncrementQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartLineRepository IncrementQuantity").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, productId).
		Int32(log.KeyQuantity, delta).
		Logger()

	logger.Info().Msg("incrementing cart line quantity")
	line, err := scanCartLine(
		r.pool.QueryRow(c, incrementQuantityQuery, userId, productId, delta),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CartLine{}, inErr.ErrLineNotFound
		}
		err = fmt.Errorf("failed incrementing cart line quantity with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return CartLine{}, err
	}
	logger.Info().Msg("incremented cart line quantity")

	return line, nil
}

const setQuantityQuery = `
update cart_lines
set quantity = $3, updated_at = now()
where user_id = $1 and product_id = $2
returning id, user_id, product_id, product_name, coalesce(product_image, ''), unit_price, quantity, created_at, updated_at;
`

func (r *CartLineRepository) SetQuantity(
	c context.Context,
	userId uuid.UUID,
	productId string,
	quantity int32,
) (CartLine, error) {
	c, span := inOtel.Tracer.Start(c, "CartLineRepository SetQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartLineRepository SetQuantity").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, productId).
		Int32(log.KeyQuantity, quantity).
		Logger()

	logger.Info().Msg("setting cart line quantity")
	line, err := scanCartLine(r.pool.QueryRow(c, setQuantityQuery, userId, productId, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CartLine{}, inErr.ErrLineNotFound
		}
		err = fmt.Errorf("failed setting cart line quantity with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return CartLine{}, err
	}
	logger.Info().Msg("set cart line quantity")

	return line, nil
}

const deleteLineQuery = `
delete from cart_lines
where user_id = $1 and product_id = $2;
`

func (r *CartLineRepository) DeleteLine(
	c context.Context,
	userId uuid.UUID,
	productId string,
) error {
	c, span := inOtel.Tracer.Start(c, "CartLineRepository DeleteLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartLineRepository DeleteLine").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, productId).
		Logger()

	logger.Info().Msg("deleting cart line")
	if _, err := r.pool.Exec(c, deleteLineQuery, userId, productId); err != nil {
		err = fmt.Errorf("failed deleting cart line with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}
	logger.Info().Msg("deleted cart line")

	return nil
}

const deleteLinesQuery = `
delete from cart_lines
where user_id = $1;
`

func (r *CartLineRepository) DeleteLines(c context.Context, userId uuid.UUID) error {
	c, span := inOtel.Tracer.Start(c, "CartLineRepository DeleteLines")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartLineRepository DeleteLines").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger.Info().Msg("deleting cart lines")
	if _, err := r.pool.Exec(c, deleteLinesQuery, userId); err != nil {
		err = fmt.Errorf("failed deleting cart lines with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}
	logger.Info().Msg("deleted cart lines")

	return nil
}
