package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

const (
	guestCartKeyPrefix = "storefront:guest-cart:"
	guestCartTTL       = 30 * 24 * time.Hour
)

type RedisGuestStore struct {
	client *redis.Client
}

func NewRedisGuestStore(client *redis.Client) *RedisGuestStore {
	return &RedisGuestStore{client: client}
}

func guestCartKey(guestId string) string {
	return guestCartKeyPrefix + guestId
}

func (s *RedisGuestStore) Load(c context.Context, guestId string) ([]Line, error) {
	c, span := inOtel.Tracer.Start(c, "RedisGuestStore Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisGuestStore Load").
		Str(log.KeyGuestID, guestId).
		Str(log.KeyCacheKey, guestCartKey(guestId)).
		Logger()

	payload, err := s.client.Get(c, guestCartKey(guestId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Line{}, nil
		}
		err = fmt.Errorf("failed loading guest cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return nil, err
	}

	lines := []Line{}
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		err = fmt.Errorf("failed unmarshaling guest cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return nil, err
	}

	return lines, nil
}

func (s *RedisGuestStore) Save(c context.Context, guestId string, lines []Line) error {
	c, span := inOtel.Tracer.Start(c, "RedisGuestStore Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisGuestStore Save").
		Str(log.KeyGuestID, guestId).
		Str(log.KeyCacheKey, guestCartKey(guestId)).
		Logger()

	payload, err := json.Marshal(lines)
	if err != nil {
		err = fmt.Errorf("failed marshaling guest cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}

	if err := s.client.Set(c, guestCartKey(guestId), payload, guestCartTTL).Err(); err != nil {
		err = fmt.Errorf("failed saving guest cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}

	return nil
}

func (s *RedisGuestStore) Clear(c context.Context, guestId string) error {
	c, span := inOtel.Tracer.Start(c, "RedisGuestStore Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisGuestStore Clear").
		Str(log.KeyGuestID, guestId).
		Str(log.KeyCacheKey, guestCartKey(guestId)).
		Logger()

	if err := s.client.Del(c, guestCartKey(guestId)).Err(); err != nil {
		err = fmt.Errorf("failed clearing guest cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}

	return nil
}
