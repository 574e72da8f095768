package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

// ItemFilter narrows a menu listing. Nil fields do not filter.
type ItemFilter struct {
	VenueID   *uint
	Available *bool
}

type MenuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

func (r *MenuItemRepository) q(ctx context.Context) *orm.Query {
	return orm.On(r.db).WithContext(ctx)
}

func (r *MenuItemRepository) Find(ctx context.Context, id uint) (*models.MenuItem, error) {
	var it models.MenuItem
	if err := r.q(ctx).Where("id = ?", id).First(&it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *MenuItemRepository) FindLocked(ctx context.Context, id uint) (*models.MenuItem, error) {
	var it models.MenuItem
	if err := r.q(ctx).ForUpdate().Where("id = ?", id).First(&it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *MenuItemRepository) List(ctx context.Context, f ItemFilter) ([]models.MenuItem, error) {
	q := r.q(ctx).Model(&models.MenuItem{})
	if f.VenueID != nil {
		q = q.Where("venue_id = ?", *f.VenueID)
	}
	if f.Available != nil {
		q = q.Where("available = ?", *f.Available)
	}
	items := []models.MenuItem{}
	err := q.Order("id").Get(&items)
	return items, err
}

func (r *MenuItemRepository) Create(ctx context.Context, it *models.MenuItem) error {
	return r.q(ctx).Create(it)
}

func (r *MenuItemRepository) Save(ctx context.Context, it *models.MenuItem) error {
	return r.q(ctx).Save(it)
}

func (r *MenuItemRepository) Delete(ctx context.Context, id uint) error {
	_, err := r.q(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	return err
}

func (r *MenuItemRepository) DeleteForVenue(ctx context.Context, venueID uint) error {
	_, err := r.q(ctx).Where("venue_id = ?", venueID).Delete(&models.MenuItem{})
	return err
}

func (r *MenuItemRepository) SetRating(ctx context.Context, id uint, avg float64, count int64) error {
	return r.q(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating_average": avg,
		"rating_count":   count,
	})
}
