package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/houseofabhilasha/storefront/cart/internal/store"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	"github.com/houseofabhilasha/storefront/internal/repository"
)

// UserLines is the persistent line store backing authenticated carts.
// *repository.CartLineRepository satisfies it.
type UserLines interface {
	ListLines(c context.Context, userId uuid.UUID) ([]repository.CartLine, error)
	FindLine(c context.Context, userId uuid.UUID, productId string) (repository.CartLine, error)
	InsertLine(c context.Context, line repository.CartLine) (repository.CartLine, error)
	IncrementQuantity(
		c context.Context,
		userId uuid.UUID,
		productId string,
		delta int32,
	) (repository.CartLine, error)
	SetQuantity(
		c context.Context,
		userId uuid.UUID,
		productId string,
		quantity int32,
	) (repository.CartLine, error)
	DeleteLine(c context.Context, userId uuid.UUID, productId string) error
	DeleteLines(c context.Context, userId uuid.UUID) error
}

// lineStore is the per-owner view the cart operations run against. Exactly
// two implementations exist: guestLines over the guest store and serverLines
// over the cart_lines table.
type lineStore interface {
	List(c context.Context) ([]store.Line, error)
	Upsert(c context.Context, line store.Line) error
	SetQuantity(c context.Context, productId string, quantity int32) error
	Remove(c context.Context, productId string) error
	Clear(c context.Context) error
}

type guestLines struct {
	store   store.GuestStore
	guestId string
}

func (g *guestLines) List(c context.Context) ([]store.Line, error) {
	return g.store.Load(c, g.guestId)
}

func (g *guestLines) Upsert(c context.Context, line store.Line) error {
	lines, err := g.store.Load(c, g.guestId)
	if err != nil {
		return err
	}
	found := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			found = true
			break
		}
	}
	if !found {
		if line.ID == "" {
			line.ID = "guest_" + uuid.NewString()
		}
		lines = append(lines, line)
	}
	return g.store.Save(c, g.guestId, lines)
}

func (g *guestLines) SetQuantity(c context.Context, productId string, quantity int32) error {
	lines, err := g.store.Load(c, g.guestId)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID == productId {
			lines[i].Quantity = quantity
			return g.store.Save(c, g.guestId, lines)
		}
	}
	return nil
}

func (g *guestLines) Remove(c context.Context, productId string) error {
	lines, err := g.store.Load(c, g.guestId)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productId {
			kept = append(kept, line)
		}
	}
	return g.store.Save(c, g.guestId, kept)
}

func (g *guestLines) Clear(c context.Context) error {
	return g.store.Clear(c, g.guestId)
}

type serverLines struct {
	repo   UserLines
	userId uuid.UUID
}

func toStoreLine(line repository.CartLine) store.Line {
	return store.Line{
		ID:           line.ID.String(),
		ProductID:    line.ProductID,
		ProductName:  line.ProductName,
		ProductImage: line.ProductImage,
		UnitPrice:    line.UnitPrice,
		Quantity:     line.Quantity,
	}
}

func (s *serverLines) List(c context.Context) ([]store.Line, error) {
	rows, err := s.repo.ListLines(c, s.userId)
	if err != nil {
		return nil, err
	}
	lines := make([]store.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, toStoreLine(row))
	}
	return lines, nil
}

// Upsert increments the existing line or inserts a fresh one. A concurrent
// insert of the same (user, product) pair surfaces as ErrDuplicateLine and is
// retried as an increment, so retrying the call converges on one line.
func (s *serverLines) Upsert(c context.Context, line store.Line) error {
	_, err := s.repo.FindLine(c, s.userId, line.ProductID)
	if err == nil {
		_, err = s.repo.IncrementQuantity(c, s.userId, line.ProductID, line.Quantity)
		return err
	}
	if !errors.Is(err, inErr.ErrLineNotFound) {
		return err
	}

	_, err = s.repo.InsertLine(c, repository.CartLine{
		UserID:       s.userId,
		ProductID:    line.ProductID,
		ProductName:  line.ProductName,
		ProductImage: line.ProductImage,
		UnitPrice:    line.UnitPrice,
		Quantity:     line.Quantity,
	})
	if errors.Is(err, inErr.ErrDuplicateLine) {
		if _, err := s.repo.IncrementQuantity(c, s.userId, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("failed recovering duplicate cart line with error=%w", err)
		}
		return nil
	}
	return err
}

func (s *serverLines) SetQuantity(c context.Context, productId string, quantity int32) error {
	_, err := s.repo.SetQuantity(c, s.userId, productId, quantity)
	if errors.Is(err, inErr.ErrLineNotFound) {
		return nil
	}
	return err
}

func (s *serverLines) Remove(c context.Context, productId string) error {
	return s.repo.DeleteLine(c, s.userId, productId)
}

func (s *serverLines) Clear(c context.Context) error {
	return s.repo.DeleteLines(c, s.userId)
}
