package service

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/log"
)

// Owner identifies whose cart an operation runs against. The two variants
// pick the backing line store themselves so no call site branches on the
// owner kind.
type Owner interface {
	lines(s *CartService) lineStore
	cacheKey() string
	logContext(c zerolog.Context) zerolog.Context
}

type GuestOwner struct {
	GuestID string
}

func (o GuestOwner) lines(s *CartService) lineStore {
	return &guestLines{store: s.guest, guestId: o.GuestID}
}

func (o GuestOwner) cacheKey() string { return "" }

func (o GuestOwner) logContext(c zerolog.Context) zerolog.Context {
	return c.Str(log.KeyGuestID, o.GuestID)
}

type UserOwner struct {
	UserID uuid.UUID
}

func (o UserOwner) lines(s *CartService) lineStore {
	return &serverLines{repo: s.userLines, userId: o.UserID}
}

func (o UserOwner) cacheKey() string {
	return "storefront:cart:" + o.UserID.String()
}

func (o UserOwner) logContext(c zerolog.Context) zerolog.Context {
	return c.Str(log.KeyUserID, o.UserID.String())
}
