package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/services"
)

func assertTotals(t *testing.T, b *models.Basket) {
	t.Helper()
	var count int
	var cost int64
	for _, l := range b.Lines {
		count += l.Quantity
		cost += int64(l.Quantity) * l.UnitCost
	}
	assert.Equal(t, count, b.ItemCount, "item count")
	assert.Equal(t, cost, b.TotalCost, "total cost")
}

func TestAddSameItemTwiceThenCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	_, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)
	b, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)

	assert.Equal(t, f.venue.ID, b.VenueID)
	assert.Equal(t, 2, b.ItemCount)
	assert.Equal(t, int64(40), b.TotalCost)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, "Samosa", b.Lines[0].ItemName)
	assert.Equal(t, 2, b.Lines[0].Quantity)
	assert.Equal(t, "spicy", b.Lines[0].Description)

	o, err := baskets.Checkout(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), o.TotalPrice)
	assert.Equal(t, 2, o.ItemCount)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.NotEmpty(t, o.PickupCode)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, models.OrderLine{ID: o.Lines[0].ID, OrderID: o.ID, ItemName: "Samosa", UnitPrice: 20, Quantity: 2}, o.Lines[0])

	gone, err := baskets.Current(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	var lines int64
	require.NoError(t, f.db.Model(&models.BasketLine{}).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestTotalsTrackLinesAcrossAdds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	var b *models.Basket
	for _, id := range []uint{f.samosa.ID, f.chai.ID, f.samosa.ID, f.chai.ID, f.chai.ID} {
		var err error
		b, err = baskets.AddItem(ctx, f.profile.ID, id)
		require.NoError(t, err)
		assertTotals(t, b)
	}
	assert.Equal(t, 5, b.ItemCount)
	assert.Equal(t, int64(70), b.TotalCost)
	assert.Len(t, b.Lines, 2)
}

func TestAddFromAnotherVenueIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	before, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)

	_, err = baskets.AddItem(ctx, f.profile.ID, f.dosa.ID)
	assert.ErrorIs(t, err, services.ErrCrossVenueConflict)

	after, err := baskets.Current(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, before.VenueID, after.VenueID)
	assert.Equal(t, before.ItemCount, after.ItemCount)
	assert.Equal(t, before.TotalCost, after.TotalCost)
	assert.Len(t, after.Lines, 1)
}

func TestUnavailableAndMissingItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	_, err := baskets.AddItem(ctx, f.profile.ID, f.soldOut.ID)
	assert.ErrorIs(t, err, services.ErrItemUnavailable)

	_, err = baskets.AddItem(ctx, f.profile.ID, 9999)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.EqualError(t, err, "menu item not found")

	b, err := baskets.Current(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestRemovingEveryLineDeletesBasket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	_, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)
	b, err := baskets.AddItem(ctx, f.profile.ID, f.chai.ID)
	require.NoError(t, err)
	require.Len(t, b.Lines, 2)

	b, err = baskets.RemoveLine(ctx, f.profile.ID, b.Lines[0].ID)
	require.NoError(t, err)
	require.NotNil(t, b)
	assertTotals(t, b)
	assert.Equal(t, 1, b.ItemCount)

	b, err = baskets.RemoveLine(ctx, f.profile.ID, b.Lines[0].ID)
	require.NoError(t, err)
	assert.Nil(t, b)

	var n int64
	require.NoError(t, f.db.Model(&models.Basket{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRemoveLineOfAnotherBasket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	other := models.Profile{UserID: f.rival.ID, Name: "Other", Hostel: "SR", RoomNo: 1, Branch: "A7"}
	create(t, f.db, &other)
	theirs, err := baskets.AddItem(ctx, other.ID, f.chai.ID)
	require.NoError(t, err)
	_, err = baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)

	_, err = baskets.RemoveLine(ctx, f.profile.ID, theirs.Lines[0].ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPriceEditLeavesExistingLineAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)
	catalog := services.NewCatalogService(f.db)

	_, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)

	price := int64(25)
	_, err = catalog.UpdateItem(ctx, f.seller.ID, f.samosa.ID, services.ItemUpdate{Price: &price})
	require.NoError(t, err)

	b, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, int64(20), b.Lines[0].UnitCost)
	assert.Equal(t, 2, b.Lines[0].Quantity)
	assert.Equal(t, int64(45), b.TotalCost)
}

func TestClearIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	_, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)

	require.NoError(t, baskets.Clear(ctx, f.profile.ID))
	require.NoError(t, baskets.Clear(ctx, f.profile.ID))

	b, err := baskets.Current(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Nil(t, b)

	// A cleared basket can be rebound to another venue.
	b, err = baskets.AddItem(ctx, f.profile.ID, f.dosa.ID)
	require.NoError(t, err)
	assert.Equal(t, f.rivalVenue.ID, b.VenueID)
}

func TestCheckoutWithoutBasket(t *testing.T) {
	f := newFixture(t)
	_, err := services.NewBasketService(f.db).Checkout(context.Background(), f.profile.ID)
	assert.ErrorIs(t, err, services.ErrEmptyBasket)

	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPurgeIdleBaskets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	b, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)

	n, err := baskets.PurgeIdle(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, f.db.Model(&models.Basket{}).Where("id = ?", b.ID).
		UpdateColumn("updated_at", time.Now().Add(-48*time.Hour)).Error)

	n, err = baskets.PurgeIdle(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	cur, err := baskets.Current(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestCheckoutFailureLeavesBasketIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	_, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)
	_, err = baskets.AddItem(ctx, f.profile.ID, f.chai.ID)
	require.NoError(t, err)

	boom := errors.New("boom")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_order_lines", func(tx *gorm.DB) {
		if tx.Statement.Table == "order_lines" {
			tx.AddError(boom)
		}
	}))

	_, err = baskets.Checkout(ctx, f.profile.ID)
	require.ErrorIs(t, err, boom)

	var orders, lines int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, f.db.Model(&models.BasketLine{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Equal(t, int64(2), lines)

	b, err := baskets.Current(ctx, f.profile.ID)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, 2, b.ItemCount)
	assert.Equal(t, int64(30), b.TotalCost)
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := baskets.AddItem(ctx, f.profile.ID, f.samosa.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	b, err := baskets.Current(ctx, f.profile.ID)
	require.NoError(t, err)
	require.NotNil(t, b)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, n, b.Lines[0].Quantity)
	assert.Equal(t, n, b.ItemCount)
	assert.Equal(t, int64(n*20), b.TotalCost)

	var count int64
	require.NoError(t, f.db.Model(&models.Basket{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
