package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/cart/internal/store"
	"github.com/houseofabhilasha/storefront/cart/pkg/request"
	"github.com/houseofabhilasha/storefront/cart/pkg/response"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
	"github.com/houseofabhilasha/storefront/internal/repository"
)

const cartCacheTTL = 5 * time.Minute

type CartService struct {
	userLines UserLines
	guest     store.GuestStore
	cache     *redis.Client
}

func NewCartService(
	userLines UserLines,
	guest store.GuestStore,
	cache *redis.Client,
) *CartService {
	return &CartService{userLines: userLines, guest: guest, cache: cache}
}

func (s *CartService) cachedCart(c context.Context, key string) (response.Cart, bool) {
	if s.cache == nil || key == "" {
		return response.Cart{}, false
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService cachedCart").
		Str(log.KeyCacheKey, key).
		Logger()

	payload, err := s.cache.Get(c, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Msg("failed getting cached cart")
		}
		return response.Cart{}, false
	}
	cart := response.Cart{}
	if err := json.Unmarshal([]byte(payload), &cart); err != nil {
		logger.Warn().Err(err).Msg("failed unmarshaling cached cart")
		return response.Cart{}, false
	}
	return cart, true
}

func (s *CartService) cacheCart(c context.Context, key string, cart response.Cart) {
	if s.cache == nil || key == "" {
		return
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService cacheCart").
		Str(log.KeyCacheKey, key).
		Logger()

	payload, err := json.Marshal(cart)
	if err != nil {
		logger.Warn().Err(err).Msg("failed marshaling cart for cache")
		return
	}
	if err := s.cache.Set(c, key, payload, cartCacheTTL).Err(); err != nil {
		logger.Warn().Err(err).Msg("failed caching cart")
	}
}

func (s *CartService) invalidateCache(c context.Context, key string) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.Del(c, key).Err(); err != nil {
		zerolog.Ctx(c).
			Warn().
			Err(err).
			Str(log.KeyCacheKey, key).
			Msg("failed invalidating cached cart")
	}
}

func (s *CartService) GetCart(c context.Context, owner Owner) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService GetCart")
	defer span.End()

	logger := owner.logContext(zerolog.Ctx(c).With()).
		Str(log.KeyTag, "CartService GetCart").
		Logger()
	c = logger.WithContext(c)

	if cart, ok := s.cachedCart(c, owner.cacheKey()); ok {
		logger.Info().Msg("returning cached cart")
		return cart, nil
	}

	logger.Info().Msg("listing cart lines")
	lines, err := owner.lines(s).List(c)
	if err != nil {
		err = fmt.Errorf("failed listing cart lines with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	logger.Info().Int(log.KeyCartLines, len(lines)).Msg("listed cart lines")

	cart := response.NewCart(lines)
	s.cacheCart(c, owner.cacheKey(), cart)
	return cart, nil
}

func (s *CartService) AddToCart(
	c context.Context,
	owner Owner,
	item request.AddItem,
) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService AddToCart")
	defer span.End()

	logger := owner.logContext(zerolog.Ctx(c).With()).
		Str(log.KeyTag, "CartService AddToCart").
		Str(log.KeyProductID, item.ProductID).
		Int32(log.KeyQuantity, item.Quantity).
		Logger()
	c = logger.WithContext(c)

	logger.Info().Msg("adding item to cart")
	err := owner.lines(s).Upsert(c, store.Line{
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductImage: item.ProductImage,
		UnitPrice:    item.UnitPrice,
		Quantity:     item.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	logger.Info().Msg("added item to cart")

	s.invalidateCache(c, owner.cacheKey())
	return s.GetCart(c, owner)
}

// UpdateQuantity sets the line quantity; zero or negative removes the line.
func (s *CartService) UpdateQuantity(
	c context.Context,
	owner Owner,
	productId string,
	quantity int32,
) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := owner.logContext(zerolog.Ctx(c).With()).
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeyProductID, productId).
		Int32(log.KeyQuantity, quantity).
		Logger()
	c = logger.WithContext(c)

	if quantity <= 0 {
		logger.Info().Msg("quantity below one, removing line instead")
		return s.RemoveFromCart(c, owner, productId)
	}

	logger.Info().Msg("updating cart line quantity")
	if err := owner.lines(s).SetQuantity(c, productId, quantity); err != nil {
		err = fmt.Errorf("failed updating cart line quantity with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	logger.Info().Msg("updated cart line quantity")

	s.invalidateCache(c, owner.cacheKey())
	return s.GetCart(c, owner)
}

func (s *CartService) RemoveFromCart(
	c context.Context,
	owner Owner,
	productId string,
) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService RemoveFromCart")
	defer span.End()

	logger := owner.logContext(zerolog.Ctx(c).With()).
		Str(log.KeyTag, "CartService RemoveFromCart").
		Str(log.KeyProductID, productId).
		Logger()
	c = logger.WithContext(c)

	logger.Info().Msg("removing cart line")
	if err := owner.lines(s).Remove(c, productId); err != nil {
		err = fmt.Errorf("failed removing cart line with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	logger.Info().Msg("removed cart line")

	s.invalidateCache(c, owner.cacheKey())
	return s.GetCart(c, owner)
}

func (s *CartService) ClearCart(c context.Context, owner Owner) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := owner.logContext(zerolog.Ctx(c).With()).
		Str(log.KeyTag, "CartService ClearCart").
		Logger()
	c = logger.WithContext(c)

	logger.Info().Msg("clearing cart")
	if err := owner.lines(s).Clear(c); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	logger.Info().Msg("cleared cart")

	s.invalidateCache(c, owner.cacheKey())
	return response.NewCart(nil), nil
}

// MergeGuestCart folds the guest cart into the user's server cart line by
// line, clears the guest cart, then reloads the server cart as the single
// source of truth.
func (s *CartService) MergeGuestCart(
	c context.Context,
	guestId string,
	userId uuid.UUID,
) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService MergeGuestCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService MergeGuestCart").
		Str(log.KeyGuestID, guestId).
		Str(log.KeyUserID, userId.String()).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "load guest cart").Logger()
	logger.Info().Msg("loading guest cart")
	guestCart, err := s.guest.Load(c, guestId)
	if err != nil {
		err = fmt.Errorf("failed loading guest cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	logger.Info().Int(log.KeyCartLines, len(guestCart)).Msg("loaded guest cart")

	logger = logger.With().Str(log.KeyProcess, "merge lines").Logger()
	target := &serverLines{repo: s.userLines, userId: userId}
	for _, line := range guestCart {
		logger.Info().
			Str(log.KeyProductID, line.ProductID).
			Int32(log.KeyQuantity, line.Quantity).
			Msg("merging guest line")
		if err := target.Upsert(c, line); err != nil {
			err = fmt.Errorf(
				"failed merging guest line productId=%s with error=%w",
				line.ProductID,
				err,
			)
			logger.Error().Err(err).Msg(err.Error())
			inOtel.RecordError(err, span)
			return response.Cart{}, err
		}
	}

	logger = logger.With().Str(log.KeyProcess, "clear guest cart").Logger()
	logger.Info().Msg("clearing guest cart")
	if err := s.guest.Clear(c, guestId); err != nil {
		err = fmt.Errorf("failed clearing guest cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	logger.Info().Msg("cleared guest cart")

	owner := UserOwner{UserID: userId}
	s.invalidateCache(c, owner.cacheKey())
	return s.GetCart(c, owner)
}

var _ UserLines = (*repository.CartLineRepository)(nil)
