package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/cache"
	"github.com/shashiranjanraj/canteen/pkg/storage"
)

func useTempDisk(t *testing.T) storage.Disk {
	t.Helper()
	d := storage.NewLocal(t.TempDir(), "http://localhost/storage")
	storage.Use(d)
	t.Cleanup(func() { storage.Use(nil) })
	return d
}

func newSeller(t *testing.T, f *fixture, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Email: username + "@campus.edu", Password: "x", Role: "seller"}
	create(t, f.db, &u)
	create(t, f.db, &models.SellerProfile{UserID: u.ID, PhoneNo: models.DefaultSellerPhone})
	return u
}

func TestCreateVenueOncePerSeller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catalog := services.NewCatalogService(f.db)
	u := newSeller(t, f, "nita")

	v, err := catalog.CreateVenue(ctx, u.ID, services.VenueInput{Name: "Chai Point"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRating, v.RatingAverage)

	_, err = catalog.CreateVenue(ctx, u.ID, services.VenueInput{Name: "Second"})
	assert.ErrorIs(t, err, services.ErrVenueExists)

	_, err = catalog.CreateVenue(ctx, f.student.ID, services.VenueInput{Name: "Nope"})
	assert.ErrorIs(t, err, services.ErrAuthorizationDenied)

	mine, err := catalog.MyVenue(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, mine.ID)
}

func TestListVenuesSearch(t *testing.T) {
	f := newFixture(t)
	catalog := services.NewCatalogService(f.db)

	page, err := catalog.ListVenues(context.Background(), "  LOOT ", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Looters", page.Items[0].Name)

	page, err = catalog.ListVenues(context.Background(), "", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Looters", page.Items[0].Name)
}

func TestListingCacheIsInvalidatedByWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.Use(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.Use(nil) })

	f := newFixture(t)
	ctx := context.Background()
	catalog := services.NewCatalogService(f.db)

	page, err := catalog.ListVenues(ctx, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	// Written behind the service's back: the cached page is still served.
	create(t, f.db, &models.Venue{SellerID: 999, Name: "Ghost", RatingAverage: 5})
	page, err = catalog.ListVenues(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	u := newSeller(t, f, "nita")
	_, err = catalog.CreateVenue(ctx, u.ID, services.VenueInput{Name: "Amul"})
	require.NoError(t, err)
	page, err = catalog.ListVenues(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)

	venueID := f.venue.ID
	items, err := catalog.ListItems(ctx, repositories.ItemFilter{VenueID: &venueID})
	require.NoError(t, err)
	require.Len(t, items, 3)

	name := "Masala Chai"
	_, err = catalog.UpdateItem(ctx, f.seller.ID, f.chai.ID, services.ItemUpdate{Name: &name})
	require.NoError(t, err)
	items, err = catalog.ListItems(ctx, repositories.ItemFilter{VenueID: &venueID})
	require.NoError(t, err)
	assert.Equal(t, "Masala Chai", items[1].Name)
}

func TestRatingsRefreshCachedListings(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.Use(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.Use(nil) })

	f := newFixture(t)
	ctx := context.Background()
	catalog := services.NewCatalogService(f.db)
	ratings := services.NewRatingService(f.db)

	venueID := f.venue.ID
	itemAverage := func() float64 {
		items, err := catalog.ListItems(ctx, repositories.ItemFilter{VenueID: &venueID})
		require.NoError(t, err)
		for _, it := range items {
			if it.ID == f.samosa.ID {
				return it.RatingAverage
			}
		}
		t.Fatalf("samosa missing from listing")
		return 0
	}
	venueAverage := func() float64 {
		page, err := catalog.ListVenues(ctx, "", 1, 10)
		require.NoError(t, err)
		for _, v := range page.Items {
			if v.ID == f.venue.ID {
				return v.RatingAverage
			}
		}
		t.Fatalf("venue missing from listing")
		return 0
	}

	require.Equal(t, 5.0, itemAverage())
	require.Equal(t, 5.0, venueAverage())

	_, _, err := ratings.RateItem(ctx, f.student.ID, f.samosa.ID, 1)
	require.NoError(t, err)
	_, _, err = ratings.RateVenue(ctx, f.student.ID, f.venue.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 1.0, itemAverage())
	assert.Equal(t, 1.0, venueAverage())
}

func TestListItemsFilters(t *testing.T) {
	f := newFixture(t)
	catalog := services.NewCatalogService(f.db)

	yes := true
	venueID := f.venue.ID
	items, err := catalog.ListItems(context.Background(), repositories.ItemFilter{VenueID: &venueID, Available: &yes})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.True(t, it.Available)
	}

	all, err := catalog.ListItems(context.Background(), repositories.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestItemImageLifecycle(t *testing.T) {
	disk := useTempDisk(t)
	f := newFixture(t)
	ctx := context.Background()
	catalog := services.NewCatalogService(f.db)

	it, err := catalog.CreateItem(ctx, f.seller.ID, services.ItemInput{Name: "Vada Pav", Price: 15},
		&services.Upload{Filename: "vada.JPG", ContentType: "image/jpeg", Body: strings.NewReader("jpeg-bytes")})
	require.NoError(t, err)
	assert.True(t, it.Available)
	assert.Equal(t, f.venue.ID, it.VenueID)
	require.True(t, strings.HasPrefix(it.ImagePath, "item_images/"))
	assert.True(t, strings.HasSuffix(it.ImagePath, ".jpg"))
	assert.True(t, disk.Exists(ctx, it.ImagePath))

	first := it.ImagePath
	it, err = catalog.AttachImage(ctx, f.seller.ID, it.ID, services.Upload{Filename: "v2.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	assert.NotEqual(t, first, it.ImagePath)
	assert.False(t, disk.Exists(ctx, first))
	assert.True(t, disk.Exists(ctx, it.ImagePath))

	require.NoError(t, catalog.DeleteItem(ctx, f.seller.ID, it.ID))
	assert.False(t, disk.Exists(ctx, it.ImagePath))
	_, err = catalog.Item(ctx, it.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestForeignSellerCannotEditMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catalog := services.NewCatalogService(f.db)

	price := int64(1)
	_, err := catalog.UpdateItem(ctx, f.rival.ID, f.samosa.ID, services.ItemUpdate{Price: &price})
	assert.ErrorIs(t, err, services.ErrAuthorizationDenied)

	err = catalog.DeleteItem(ctx, f.rival.ID, f.samosa.ID)
	assert.ErrorIs(t, err, services.ErrAuthorizationDenied)

	_, err = catalog.UpdateVenue(ctx, f.rival.ID, f.venue.ID, services.VenueInput{Name: "Mine"})
	assert.ErrorIs(t, err, services.ErrAuthorizationDenied)

	_, err = catalog.CreateItem(ctx, f.student.ID, services.ItemInput{Name: "x"}, nil)
	assert.ErrorIs(t, err, services.ErrNoVenue)

	got, err := catalog.Item(ctx, f.samosa.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.Price)
}

func TestDeleteVenueCascades(t *testing.T) {
	useTempDisk(t)
	f := newFixture(t)
	ctx := context.Background()
	catalog := services.NewCatalogService(f.db)

	_, err := services.NewBasketService(f.db).AddItem(ctx, f.profile.ID, f.samosa.ID)
	require.NoError(t, err)
	_, _, err = services.NewRatingService(f.db).RateItem(ctx, f.student.ID, f.samosa.ID, 4)
	require.NoError(t, err)
	_, _, err = services.NewRatingService(f.db).RateVenue(ctx, f.student.ID, f.venue.ID, 4)
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteVenue(ctx, f.seller.ID, f.venue.ID))

	for _, m := range []interface{}{&models.MenuItem{}, &models.Basket{}, &models.BasketLine{}, &models.ItemRating{}, &models.VenueRating{}} {
		var n int64
		q := f.db.Model(m)
		if _, ok := m.(*models.MenuItem); ok {
			q = q.Where("venue_id = ?", f.venue.ID)
		}
		require.NoError(t, q.Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}
	_, err = catalog.Venue(ctx, f.venue.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = catalog.Venue(ctx, f.rivalVenue.ID)
	assert.NoError(t, err)
}
