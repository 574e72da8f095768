package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

// Aggregate is the count and sum of one target's ratings.
type Aggregate struct {
	RatingCount int64
	RatingSum   int64
}

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) q(ctx context.Context) *orm.Query {
	return orm.On(r.db).WithContext(ctx)
}

func upsertOn(cols ...string) clause.OnConflict {
	conflict := make([]clause.Column, len(cols))
	for i, c := range cols {
		conflict[i] = clause.Column{Name: c}
	}
	return clause.OnConflict{
		Columns:   conflict,
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}
}

// UpsertItem inserts the rating or replaces the rater's previous value.
func (r *RatingRepository) UpsertItem(ctx context.Context, rt *models.ItemRating) error {
	rt.UpdatedAt = time.Now()
	return r.q(ctx).Clauses(upsertOn("user_id", "item_id")).Create(rt)
}

func (r *RatingRepository) UpsertVenue(ctx context.Context, rt *models.VenueRating) error {
	rt.UpdatedAt = time.Now()
	return r.q(ctx).Clauses(upsertOn("user_id", "venue_id")).Create(rt)
}

const aggregateColumns = "COUNT(*) AS rating_count, COALESCE(SUM(value), 0) AS rating_sum"

func (r *RatingRepository) ItemAggregate(ctx context.Context, itemID uint) (Aggregate, error) {
	var a Aggregate
	err := r.q(ctx).Model(&models.ItemRating{}).Select(aggregateColumns).Where("item_id = ?", itemID).Scan(&a)
	return a, err
}

func (r *RatingRepository) VenueAggregate(ctx context.Context, venueID uint) (Aggregate, error) {
	var a Aggregate
	err := r.q(ctx).Model(&models.VenueRating{}).Select(aggregateColumns).Where("venue_id = ?", venueID).Scan(&a)
	return a, err
}

func (r *RatingRepository) ItemRatings(ctx context.Context, itemID uint) ([]models.ItemRating, error) {
	out := []models.ItemRating{}
	err := r.q(ctx).Where("item_id = ?", itemID).Order("id").Get(&out)
	return out, err
}

func (r *RatingRepository) ForItem(ctx context.Context, userID, itemID uint) (*models.ItemRating, error) {
	var rt models.ItemRating
	if err := r.q(ctx).Where("user_id = ? AND item_id = ?", userID, itemID).First(&rt); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RatingRepository) ForVenue(ctx context.Context, userID, venueID uint) (*models.VenueRating, error) {
	var rt models.VenueRating
	if err := r.q(ctx).Where("user_id = ? AND venue_id = ?", userID, venueID).First(&rt); err != nil {
		return nil, err
	}
	return &rt, nil
}

// DeleteForItems removes every rating of the given items.
func (r *RatingRepository) DeleteForItems(ctx context.Context, itemIDs ...uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	_, err := r.q(ctx).Where("item_id IN ?", itemIDs).Delete(&models.ItemRating{})
	return err
}

func (r *RatingRepository) DeleteForVenue(ctx context.Context, venueID uint) error {
	_, err := r.q(ctx).Where("venue_id = ?", venueID).Delete(&models.VenueRating{})
	return err
}
