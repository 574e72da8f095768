package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/rbac"
)

func placeOrder(t *testing.T, f *fixture, itemIDs ...uint) *models.Order {
	t.Helper()
	ctx := context.Background()
	baskets := services.NewBasketService(f.db)
	for _, id := range itemIDs {
		_, err := baskets.AddItem(ctx, f.profile.ID, id)
		require.NoError(t, err)
	}
	o, err := baskets.Checkout(ctx, f.profile.ID)
	require.NoError(t, err)
	return o
}

func TestFulfilledOrderLeavesPendingList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orders := services.NewOrderService(f.db)
	o := placeOrder(t, f, f.samosa.ID, f.chai.ID)

	seller := services.Viewer{UserID: f.seller.ID, Role: rbac.Seller}
	student := services.Viewer{UserID: f.student.ID, Role: rbac.Student}

	pending, p, err := orders.List(ctx, seller, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Total)
	require.Len(t, pending, 1)
	assert.Len(t, pending[0].Lines, 2)

	mine, _, err := orders.List(ctx, student, models.OrderPending, 1, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	done, err := orders.Fulfill(ctx, f.seller.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderFulfilled, done.Status)
	require.NotNil(t, done.FulfilledAt)

	pending, _, err = orders.List(ctx, seller, models.OrderPending, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	mine, _, err = orders.List(ctx, student, "", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, mine)

	history, _, err := orders.List(ctx, student, models.OrderFulfilled, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, o.ID, history[0].ID)
}

func TestFulfillByForeignSellerIsDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orders := services.NewOrderService(f.db)
	o := placeOrder(t, f, f.samosa.ID)

	_, err := orders.Fulfill(ctx, f.rival.ID, o.ID)
	assert.ErrorIs(t, err, services.ErrAuthorizationDenied)

	_, err = orders.Fulfill(ctx, f.student.ID, o.ID)
	assert.ErrorIs(t, err, services.ErrAuthorizationDenied)

	got, err := orders.Show(ctx, services.Viewer{UserID: f.seller.ID, Role: rbac.Seller}, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)
}

func TestFulfillTwiceAndMissingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orders := services.NewOrderService(f.db)
	o := placeOrder(t, f, f.samosa.ID)

	_, err := orders.Fulfill(ctx, f.seller.ID, o.ID)
	require.NoError(t, err)

	_, err = orders.Fulfill(ctx, f.seller.ID, o.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.EqualError(t, err, "pending order not found")

	_, err = orders.Fulfill(ctx, f.seller.ID, 4242)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestShowIsLimitedToBuyerAndVenueSeller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orders := services.NewOrderService(f.db)
	o := placeOrder(t, f, f.chai.ID)

	cases := []struct {
		name   string
		viewer services.Viewer
		err    error
	}{
		{"buyer", services.Viewer{UserID: f.student.ID, Role: rbac.Student}, nil},
		{"venue seller", services.Viewer{UserID: f.seller.ID, Role: rbac.Seller}, nil},
		{"other seller", services.Viewer{UserID: f.rival.ID, Role: rbac.Seller}, services.ErrAuthorizationDenied},
		{"student without profile", services.Viewer{UserID: f.rival.ID, Role: rbac.Student}, services.ErrAuthorizationDenied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := orders.Show(ctx, tc.viewer, o.ID)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, o.PickupCode, got.PickupCode)
		})
	}
}

func TestListWithoutProfileOrVenue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orders := services.NewOrderService(f.db)

	_, _, err := orders.List(ctx, services.Viewer{UserID: f.seller.ID, Role: rbac.Student}, "", 1, 10)
	assert.ErrorIs(t, err, services.ErrNoProfile)

	_, _, err = orders.List(ctx, services.Viewer{UserID: f.student.ID, Role: rbac.Seller}, "", 1, 10)
	assert.ErrorIs(t, err, services.ErrNoVenue)
}

func TestPickupQRIsPNG(t *testing.T) {
	f := newFixture(t)
	o := placeOrder(t, f, f.samosa.ID)

	png, err := services.NewOrderService(f.db).PickupQR(context.Background(),
		services.Viewer{UserID: f.student.ID, Role: rbac.Student}, o.ID, 128)
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestPurgeFulfilledKeepsRecentAndPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orders := services.NewOrderService(f.db)

	old := placeOrder(t, f, f.samosa.ID)
	recent := placeOrder(t, f, f.chai.ID)
	open := placeOrder(t, f, f.samosa.ID)

	for _, o := range []*models.Order{old, recent} {
		_, err := orders.Fulfill(ctx, f.seller.ID, o.ID)
		require.NoError(t, err)
	}
	require.NoError(t, f.db.Model(&models.Order{}).Where("id = ?", old.ID).
		UpdateColumn("fulfilled_at", time.Now().Add(-60*24*time.Hour)).Error)

	n, err := orders.PurgeFulfilled(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var ids []uint
	require.NoError(t, f.db.Model(&models.Order{}).Order("id").Pluck("id", &ids).Error)
	assert.Equal(t, []uint{recent.ID, open.ID}, ids)

	var lines int64
	require.NoError(t, f.db.Model(&models.OrderLine{}).Where("order_id = ?", old.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}
