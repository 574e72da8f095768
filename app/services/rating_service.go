package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/events"
	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/pkg/event"
)

const (
	TargetItem  = "item"
	TargetVenue = "venue"
)

// average is the mean of count ratings summing to sum, rounded half away
// from zero to one decimal. With no ratings it is the default rating.
// Ratings are positive so the rounding is done in integer tenths.
func average(sum, count int64) float64 {
	if count <= 0 {
		return models.DefaultRating
	}
	tenths := (20*sum + count) / (2 * count)
	return float64(tenths) / 10
}

func validRating(v int) bool { return v >= models.MinRating && v <= models.MaxRating }

// RatingService records one rating per (account, target) and keeps the
// target's average in step with its rating rows.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// RateItem stores userID's value for the item, replacing an earlier one,
// and recomputes the item's average from all of its ratings.
func (s *RatingService) RateItem(ctx context.Context, userID, itemID uint, value int) (*models.ItemRating, *models.MenuItem, error) {
	if !validRating(value) {
		return nil, nil, ErrInvalidRating
	}
	var (
		rating *models.ItemRating
		item   *models.MenuItem
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := repositories.NewMenuItemRepository(tx)
		ratings := repositories.NewRatingRepository(tx)

		var err error
		if item, err = items.FindLocked(ctx, itemID); err != nil {
			return missing(err, "menu item")
		}
		if err := ratings.UpsertItem(ctx, &models.ItemRating{UserID: userID, ItemID: itemID, Value: value}); err != nil {
			return err
		}
		agg, err := ratings.ItemAggregate(ctx, itemID)
		if err != nil {
			return err
		}
		item.RatingAverage = average(agg.RatingSum, agg.RatingCount)
		item.RatingCount = agg.RatingCount
		if err := items.SetRating(ctx, itemID, item.RatingAverage, item.RatingCount); err != nil {
			return err
		}
		rating, err = ratings.ForItem(ctx, userID, itemID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	bumpCatalog(ctx)

	event.FireAsync(ctx, events.RatingRecorded, events.Rating{
		Event: events.RatingRecorded, Target: TargetItem, TargetID: itemID, UserID: userID,
		Value: value, Average: item.RatingAverage, Count: item.RatingCount, At: time.Now().UTC(),
	})
	return rating, item, nil
}

// RateVenue is RateItem for venues.
func (s *RatingService) RateVenue(ctx context.Context, userID, venueID uint, value int) (*models.VenueRating, *models.Venue, error) {
	if !validRating(value) {
		return nil, nil, ErrInvalidRating
	}
	var (
		rating *models.VenueRating
		venue  *models.Venue
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		venues := repositories.NewVenueRepository(tx)
		ratings := repositories.NewRatingRepository(tx)

		var err error
		if venue, err = venues.FindLocked(ctx, venueID); err != nil {
			return missing(err, "restaurant")
		}
		if err := ratings.UpsertVenue(ctx, &models.VenueRating{UserID: userID, VenueID: venueID, Value: value}); err != nil {
			return err
		}
		agg, err := ratings.VenueAggregate(ctx, venueID)
		if err != nil {
			return err
		}
		venue.RatingAverage = average(agg.RatingSum, agg.RatingCount)
		venue.RatingCount = agg.RatingCount
		if err := venues.SetRating(ctx, venueID, venue.RatingAverage, venue.RatingCount); err != nil {
			return err
		}
		rating, err = ratings.ForVenue(ctx, userID, venueID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	bumpCatalog(ctx)

	event.FireAsync(ctx, events.RatingRecorded, events.Rating{
		Event: events.RatingRecorded, Target: TargetVenue, TargetID: venueID, UserID: userID,
		Value: value, Average: venue.RatingAverage, Count: venue.RatingCount, At: time.Now().UTC(),
	})
	return rating, venue, nil
}
