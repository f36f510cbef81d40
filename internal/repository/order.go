package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const insertOrderQuery = `
insert into orders (id, user_id, status, payment_method, total_amount, shipping_address, contact_no, notes)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning id, user_id, status, payment_method, total_amount, shipping_address, contact_no, coalesce(notes, ''), created_at, updated_at;
`

const insertOrderItemQuery = `
insert into order_items (id, order_id, product_id, product_name, product_image, product_price, quantity)
values ($1, $2, $3, $4, $5, $6, $7);
`

func (r *OrderRepository) CreateOrder(
	c context.Context,
	order Order,
	items []OrderItem,
) (Order, error) {
	c, span := inOtel.Tracer.Start(c, "OrderRepository CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderRepository CreateOrder").
		Str(log.KeyUserID, order.UserID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "begin transaction").Logger()
	logger.Info().Msg("beginning transaction")
	tx, err := r.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed beginning transaction with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return Order{}, err
	}
	defer func() {
		if err := tx.Rollback(c); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			inOtel.RecordError(err, span)
		}
	}()
	logger.Info().Msg("began transaction")

	logger = logger.With().Str(log.KeyProcess, "insert order").Logger()
	logger.Info().Msg("inserting order")
	orderId := order.ID
	if orderId == uuid.Nil {
		orderId = uuid.New()
	}
	inserted := Order{}
	totalAmount := pgtype.Numeric{}
	err = tx.QueryRow(
		c,
		insertOrderQuery,
		orderId,
		order.UserID,
		order.Status,
		order.PaymentMethod,
		NumericFromDecimal(order.TotalAmount),
		order.ShippingAddress,
		order.ContactNo,
		order.Notes,
	).Scan(
		&inserted.ID,
		&inserted.UserID,
		&inserted.Status,
		&inserted.PaymentMethod,
		&totalAmount,
		&inserted.ShippingAddress,
		&inserted.ContactNo,
		&inserted.Notes,
		&inserted.CreatedAt,
		&inserted.UpdatedAt,
	)
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return Order{}, err
	}
	inserted.TotalAmount = DecimalFromNumeric(totalAmount)
	logger.Info().Str(log.KeyOrderID, inserted.ID.String()).Msg("inserted order")

	logger = logger.With().
		Str(log.KeyProcess, "insert order items").
		Str(log.KeyOrderID, inserted.ID.String()).
		Logger()
	logger.Info().Msg("inserting order items")
	for _, item := range items {
		itemId := item.ID
		if itemId == uuid.Nil {
			itemId = uuid.New()
		}
		_, err = tx.Exec(
			c,
			insertOrderItemQuery,
			itemId,
			inserted.ID,
			item.ProductID,
			item.ProductName,
			item.ProductImage,
			NumericFromDecimal(item.ProductPrice),
			item.Quantity,
		)
		if err != nil {
			err = fmt.Errorf(
				"failed inserting order item productId=%s with error=%w",
				item.ProductID,
				err,
			)
			logger.Error().Err(err).Msg(err.Error())
			inOtel.RecordError(err, span)
			return Order{}, err
		}
	}
	logger.Info().Msg("inserted order items")

	logger = logger.With().Str(log.KeyProcess, "commit transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return Order{}, err
	}
	logger.Info().Msg("committed transaction")

	return inserted, nil
}
