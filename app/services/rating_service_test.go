package services_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/app/services"
)

func TestAverage(t *testing.T) {
	cases := []struct {
		sum, count int64
		want       float64
	}{
		{0, 0, 5.0},
		{1, 1, 1.0},
		{5, 1, 5.0},
		{7, 2, 3.5},
		{9, 2, 4.5},
		{10, 3, 3.3},
		{11, 3, 3.7},
		{13, 3, 4.3},
		{13, 4, 3.3},
		{17, 4, 4.3},
		{499, 100, 5.0},
		{149, 100, 1.5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, services.Average(tc.sum, tc.count), "sum=%d count=%d", tc.sum, tc.count)
	}
}

func TestRerateReplacesPreviousValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ratings := services.NewRatingService(f.db)

	_, item, err := ratings.RateItem(ctx, f.student.ID, f.samosa.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, item.RatingAverage)

	r, item, err := ratings.RateItem(ctx, f.student.ID, f.samosa.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Value)
	assert.Equal(t, 2.0, item.RatingAverage)
	assert.Equal(t, int64(1), item.RatingCount)

	var n int64
	require.NoError(t, f.db.Model(&models.ItemRating{}).Where("item_id = ?", f.samosa.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestThreeRatersAverage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ratings := services.NewRatingService(f.db)

	var item *models.MenuItem
	for i, v := range []int{5, 3, 4} {
		var err error
		_, item, err = ratings.RateItem(ctx, uint(100+i), f.chai.ID, v)
		require.NoError(t, err)
	}
	assert.Equal(t, 4.0, item.RatingAverage)
	assert.Equal(t, int64(3), item.RatingCount)

	_, item, err := ratings.RateItem(ctx, 200, f.chai.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, item.RatingAverage)

	_, item, err = ratings.RateItem(ctx, 201, f.chai.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 4.2, item.RatingAverage)

	var stored models.MenuItem
	require.NoError(t, f.db.First(&stored, f.chai.ID).Error)
	assert.Equal(t, 4.2, stored.RatingAverage)
	assert.Equal(t, int64(5), stored.RatingCount)
}

func TestStoredAverageMatchesRecompute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ratings := services.NewRatingService(f.db)
	rnd := rand.New(rand.NewSource(42))

	current := map[uint]int{}
	for i := 0; i < 40; i++ {
		rater := uint(1 + rnd.Intn(8))
		value := 1 + rnd.Intn(5)
		current[rater] = value

		_, item, err := ratings.RateItem(ctx, rater, f.samosa.ID, value)
		require.NoError(t, err)

		var sum int64
		for _, v := range current {
			sum += int64(v)
		}
		require.Equal(t, services.Average(sum, int64(len(current))), item.RatingAverage, "step %d", i)
		require.Equal(t, int64(len(current)), item.RatingCount)
	}

	stored, err := repositories.NewRatingRepository(f.db).ItemRatings(ctx, f.samosa.ID)
	require.NoError(t, err)
	require.Len(t, stored, len(current))
	for _, r := range stored {
		assert.Equal(t, current[r.UserID], r.Value, "rater %d", r.UserID)
	}
}

func TestConcurrentRatingsKeepCountInStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ratings := services.NewRatingService(f.db)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(rater uint) {
			defer wg.Done()
			_, _, err := ratings.RateItem(ctx, rater, f.chai.ID, 4)
			errs <- err
		}(uint(100 + i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var chai models.MenuItem
	require.NoError(t, f.db.First(&chai, f.chai.ID).Error)
	assert.Equal(t, int64(n), chai.RatingCount)
	assert.Equal(t, 4.0, chai.RatingAverage)
}

func TestRatingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ratings := services.NewRatingService(f.db)

	for _, v := range []int{0, 6, -1} {
		_, _, err := ratings.RateItem(ctx, f.student.ID, f.samosa.ID, v)
		assert.ErrorIs(t, err, services.ErrInvalidRating)
		_, _, err = ratings.RateVenue(ctx, f.student.ID, f.venue.ID, v)
		assert.ErrorIs(t, err, services.ErrInvalidRating)
	}

	_, _, err := ratings.RateItem(ctx, f.student.ID, 777, 3)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, _, err = ratings.RateVenue(ctx, f.student.ID, 777, 3)
	assert.EqualError(t, err, "restaurant not found")
}

func TestRateVenue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ratings := services.NewRatingService(f.db)

	_, v, err := ratings.RateVenue(ctx, f.student.ID, f.venue.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.RatingAverage)

	r, v, err := ratings.RateVenue(ctx, f.rival.ID, f.venue.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, f.venue.ID, r.VenueID)
	assert.Equal(t, 3.5, v.RatingAverage)
	assert.Equal(t, int64(2), v.RatingCount)

	var other models.Venue
	require.NoError(t, f.db.First(&other, f.rivalVenue.ID).Error)
	assert.Equal(t, models.DefaultRating, other.RatingAverage)
	assert.Zero(t, other.RatingCount)
}
