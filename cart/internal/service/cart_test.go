package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houseofabhilasha/storefront/cart/internal/store"
	"github.com/houseofabhilasha/storefront/cart/pkg/request"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	"github.com/houseofabhilasha/storefront/internal/repository"
)

type fakeUserLines struct {
	mu           sync.Mutex
	lines        map[uuid.UUID]map[string]repository.CartLine
	hideFromFind bool
}

func newFakeUserLines() *fakeUserLines {
	return &fakeUserLines{lines: map[uuid.UUID]map[string]repository.CartLine{}}
}

func (f *fakeUserLines) userLines(userId uuid.UUID) map[string]repository.CartLine {
	if f.lines[userId] == nil {
		f.lines[userId] = map[string]repository.CartLine{}
	}
	return f.lines[userId]
}

func (f *fakeUserLines) ListLines(
	_ context.Context,
	userId uuid.UUID,
) ([]repository.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := []repository.CartLine{}
	for _, line := range f.userLines(userId) {
		lines = append(lines, line)
	}
	return lines, nil
}

func (f *fakeUserLines) FindLine(
	_ context.Context,
	userId uuid.UUID,
	productId string,
) (repository.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideFromFind {
		return repository.CartLine{}, inErr.ErrLineNotFound
	}
	line, ok := f.userLines(userId)[productId]
	if !ok {
		return repository.CartLine{}, inErr.ErrLineNotFound
	}
	return line, nil
}

func (f *fakeUserLines) InsertLine(
	_ context.Context,
	line repository.CartLine,
) (repository.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.userLines(line.UserID)[line.ProductID]; ok {
		return repository.CartLine{}, inErr.ErrDuplicateLine
	}
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	f.userLines(line.UserID)[line.ProductID] = line
	return line, nil
}

func (f *fakeUserLines) IncrementQuantity(
	_ context.Context,
	userId uuid.UUID,
	productId string,
	delta int32,
) (repository.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.userLines(userId)[productId]
	if !ok {
		return repository.CartLine{}, inErr.ErrLineNotFound
	}
	line.Quantity += delta
	f.userLines(userId)[productId] = line
	return line, nil
}

func (f *fakeUserLines) SetQuantity(
	_ context.Context,
	userId uuid.UUID,
	productId string,
	quantity int32,
) (repository.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.userLines(userId)[productId]
	if !ok {
		return repository.CartLine{}, inErr.ErrLineNotFound
	}
	line.Quantity = quantity
	f.userLines(userId)[productId] = line
	return line, nil
}

func (f *fakeUserLines) DeleteLine(
	_ context.Context,
	userId uuid.UUID,
	productId string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.userLines(userId), productId)
	return nil
}

func (f *fakeUserLines) DeleteLines(_ context.Context, userId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, userId)
	return nil
}

func addItem(productId string, price int64, quantity int32) request.AddItem {
	return request.AddItem{
		ProductID:   productId,
		ProductName: "product " + productId,
		UnitPrice:   decimal.NewFromInt(price),
		Quantity:    quantity,
	}
}

func TestAddToCart(t *testing.T) {
	owners := map[string]func() (Owner, *CartService, *fakeUserLines, store.GuestStore){
		"guest": func() (Owner, *CartService, *fakeUserLines, store.GuestStore) {
			guest := store.NewMemoryGuestStore()
			repo := newFakeUserLines()
			return GuestOwner{GuestID: "guest-1"}, NewCartService(repo, guest, nil), repo, guest
		},
		"user": func() (Owner, *CartService, *fakeUserLines, store.GuestStore) {
			guest := store.NewMemoryGuestStore()
			repo := newFakeUserLines()
			return UserOwner{UserID: uuid.New()}, NewCartService(repo, guest, nil), repo, guest
		},
	}

	for name, setup := range owners {
		t.Run(name+" insert then increment", func(t *testing.T) {
			owner, svc, _, _ := setup()
			c := context.Background()

			cart, err := svc.AddToCart(c, owner, addItem("sku-1", 100, 2))
			require.NoError(t, err)
			require.Len(t, cart.Lines, 1)
			assert.EqualValues(t, 2, cart.TotalItems)
			assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(200)))

			cart, err = svc.AddToCart(c, owner, addItem("sku-1", 100, 3))
			require.NoError(t, err)
			require.Len(t, cart.Lines, 1)
			assert.EqualValues(t, 5, cart.Lines[0].Quantity)
			assert.EqualValues(t, 5, cart.TotalItems)
			assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(500)))
		})

		t.Run(name+" distinct products get distinct lines", func(t *testing.T) {
			owner, svc, _, _ := setup()
			c := context.Background()

			_, err := svc.AddToCart(c, owner, addItem("sku-1", 100, 1))
			require.NoError(t, err)
			cart, err := svc.AddToCart(c, owner, addItem("sku-2", 50, 4))
			require.NoError(t, err)

			require.Len(t, cart.Lines, 2)
			assert.EqualValues(t, 5, cart.TotalItems)
			assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(300)))
		})
	}
}

func TestAddToCartDuplicateRace(t *testing.T) {
	guest := store.NewMemoryGuestStore()
	repo := newFakeUserLines()
	svc := NewCartService(repo, guest, nil)
	owner := UserOwner{UserID: uuid.New()}
	c := context.Background()

	_, err := svc.AddToCart(c, owner, addItem("sku-1", 100, 2))
	require.NoError(t, err)

	// Simulate a concurrent insert winning between find and insert: the find
	// misses but the unique constraint fires, so the add must converge by
	// incrementing the surviving line.
	repo.hideFromFind = true
	_, err = svc.AddToCart(c, owner, addItem("sku-1", 100, 3))
	repo.hideFromFind = false
	require.NoError(t, err)

	cart, err := svc.GetCart(c, owner)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.EqualValues(t, 5, cart.Lines[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	testCases := []struct {
		name         string
		quantity     int32
		wantLines    int
		wantQuantity int32
	}{
		{name: "positive quantity replaces", quantity: 7, wantLines: 1, wantQuantity: 7},
		{name: "zero removes the line", quantity: 0, wantLines: 0},
		{name: "negative removes the line", quantity: -3, wantLines: 0},
	}

	for _, tc := range testCases {
		t.Run("guest "+tc.name, func(t *testing.T) {
			guest := store.NewMemoryGuestStore()
			svc := NewCartService(newFakeUserLines(), guest, nil)
			owner := GuestOwner{GuestID: "guest-1"}
			c := context.Background()

			_, err := svc.AddToCart(c, owner, addItem("sku-1", 100, 2))
			require.NoError(t, err)

			cart, err := svc.UpdateQuantity(c, owner, "sku-1", tc.quantity)
			require.NoError(t, err)
			require.Len(t, cart.Lines, tc.wantLines)
			if tc.wantLines > 0 {
				assert.EqualValues(t, tc.wantQuantity, cart.Lines[0].Quantity)
			}
		})

		t.Run("user "+tc.name, func(t *testing.T) {
			svc := NewCartService(newFakeUserLines(), store.NewMemoryGuestStore(), nil)
			owner := UserOwner{UserID: uuid.New()}
			c := context.Background()

			_, err := svc.AddToCart(c, owner, addItem("sku-1", 100, 2))
			require.NoError(t, err)

			cart, err := svc.UpdateQuantity(c, owner, "sku-1", tc.quantity)
			require.NoError(t, err)
			require.Len(t, cart.Lines, tc.wantLines)
			if tc.wantLines > 0 {
				assert.EqualValues(t, tc.wantQuantity, cart.Lines[0].Quantity)
			}
		})
	}
}

func TestUpdateQuantityAbsentLineIsNoop(t *testing.T) {
	svc := NewCartService(newFakeUserLines(), store.NewMemoryGuestStore(), nil)
	owner := UserOwner{UserID: uuid.New()}
	c := context.Background()

	cart, err := svc.UpdateQuantity(c, owner, "missing", 4)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestRemoveFromCart(t *testing.T) {
	svc := NewCartService(newFakeUserLines(), store.NewMemoryGuestStore(), nil)
	owner := GuestOwner{GuestID: "guest-1"}
	c := context.Background()

	_, err := svc.AddToCart(c, owner, addItem("sku-1", 100, 2))
	require.NoError(t, err)
	_, err = svc.AddToCart(c, owner, addItem("sku-2", 50, 1))
	require.NoError(t, err)

	cart, err := svc.RemoveFromCart(c, owner, "sku-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "sku-2", cart.Lines[0].ProductID)

	// removing an absent line is a no-op
	cart, err = svc.RemoveFromCart(c, owner, "sku-1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

func TestClearCart(t *testing.T) {
	svc := NewCartService(newFakeUserLines(), store.NewMemoryGuestStore(), nil)
	c := context.Background()

	for _, owner := range []Owner{
		GuestOwner{GuestID: "guest-1"},
		UserOwner{UserID: uuid.New()},
	} {
		_, err := svc.AddToCart(c, owner, addItem("sku-1", 100, 2))
		require.NoError(t, err)

		cart, err := svc.ClearCart(c, owner)
		require.NoError(t, err)
		assert.Empty(t, cart.Lines)
		assert.EqualValues(t, 0, cart.TotalItems)
		assert.True(t, cart.TotalPrice.IsZero())
	}
}

func TestMergeGuestCart(t *testing.T) {
	c := context.Background()
	userId := uuid.New()
	guestId := "guest-1"

	t.Run("disjoint products are appended", func(t *testing.T) {
		guest := store.NewMemoryGuestStore()
		repo := newFakeUserLines()
		svc := NewCartService(repo, guest, nil)

		_, err := svc.AddToCart(c, GuestOwner{GuestID: guestId}, addItem("sku-1", 100, 2))
		require.NoError(t, err)
		_, err = svc.AddToCart(c, UserOwner{UserID: userId}, addItem("sku-2", 50, 1))
		require.NoError(t, err)

		cart, err := svc.MergeGuestCart(c, guestId, userId)
		require.NoError(t, err)
		assert.Len(t, cart.Lines, 2)
		assert.EqualValues(t, 3, cart.TotalItems)
	})

	t.Run("overlapping products sum quantities", func(t *testing.T) {
		guest := store.NewMemoryGuestStore()
		repo := newFakeUserLines()
		svc := NewCartService(repo, guest, nil)

		_, err := svc.AddToCart(c, GuestOwner{GuestID: guestId}, addItem("sku-1", 100, 2))
		require.NoError(t, err)
		_, err = svc.AddToCart(c, UserOwner{UserID: userId}, addItem("sku-1", 100, 3))
		require.NoError(t, err)

		cart, err := svc.MergeGuestCart(c, guestId, userId)
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.EqualValues(t, 5, cart.Lines[0].Quantity)
	})

	t.Run("empty guest cart leaves server cart untouched", func(t *testing.T) {
		guest := store.NewMemoryGuestStore()
		repo := newFakeUserLines()
		svc := NewCartService(repo, guest, nil)

		_, err := svc.AddToCart(c, UserOwner{UserID: userId}, addItem("sku-1", 100, 3))
		require.NoError(t, err)

		cart, err := svc.MergeGuestCart(c, guestId, userId)
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.EqualValues(t, 3, cart.Lines[0].Quantity)
	})

	t.Run("guest cart is cleared after merge", func(t *testing.T) {
		guest := store.NewMemoryGuestStore()
		repo := newFakeUserLines()
		svc := NewCartService(repo, guest, nil)

		_, err := svc.AddToCart(c, GuestOwner{GuestID: guestId}, addItem("sku-1", 100, 2))
		require.NoError(t, err)

		_, err = svc.MergeGuestCart(c, guestId, userId)
		require.NoError(t, err)

		guestCart, err := svc.GetCart(c, GuestOwner{GuestID: guestId})
		require.NoError(t, err)
		assert.Empty(t, guestCart.Lines)
	})

	t.Run("merge is idempotent once the guest cart is cleared", func(t *testing.T) {
		guest := store.NewMemoryGuestStore()
		repo := newFakeUserLines()
		svc := NewCartService(repo, guest, nil)

		_, err := svc.AddToCart(c, GuestOwner{GuestID: guestId}, addItem("sku-1", 100, 2))
		require.NoError(t, err)

		_, err = svc.MergeGuestCart(c, guestId, userId)
		require.NoError(t, err)
		cart, err := svc.MergeGuestCart(c, guestId, userId)
		require.NoError(t, err)

		require.Len(t, cart.Lines, 1)
		assert.EqualValues(t, 2, cart.Lines[0].Quantity)
	})

	t.Run("duplicate insert race converges by incrementing", func(t *testing.T) {
		guest := store.NewMemoryGuestStore()
		repo := newFakeUserLines()
		svc := NewCartService(repo, guest, nil)

		_, err := svc.AddToCart(c, GuestOwner{GuestID: guestId}, addItem("sku-1", 100, 2))
		require.NoError(t, err)
		_, err = svc.AddToCart(c, UserOwner{UserID: userId}, addItem("sku-1", 100, 3))
		require.NoError(t, err)

		repo.hideFromFind = true
		_, err = svc.MergeGuestCart(c, guestId, userId)
		repo.hideFromFind = false
		require.NoError(t, err)

		cart, err := svc.GetCart(c, UserOwner{UserID: userId})
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.EqualValues(t, 5, cart.Lines[0].Quantity)
	})
}

func TestGetCartRecomputesTotals(t *testing.T) {
	svc := NewCartService(newFakeUserLines(), store.NewMemoryGuestStore(), nil)
	owner := GuestOwner{GuestID: "guest-1"}
	c := context.Background()

	_, err := svc.AddToCart(c, owner, request.AddItem{
		ProductID:   "sku-1",
		ProductName: "product sku-1",
		UnitPrice:   decimal.RequireFromString("19.99"),
		Quantity:    3,
	})
	require.NoError(t, err)

	cart, err := svc.GetCart(c, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cart.TotalItems)
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("59.97")))
}
