package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

type BasketRepository struct {
	db *gorm.DB
}

func NewBasketRepository(db *gorm.DB) *BasketRepository {
	return &BasketRepository{db: db}
}

func (r *BasketRepository) q(ctx context.Context) *orm.Query {
	return orm.On(r.db).WithContext(ctx)
}

// ForProfile returns the profile's basket with its lines, or orm.ErrNotFound.
func (r *BasketRepository) ForProfile(ctx context.Context, profileID uint) (*models.Basket, error) {
	var b models.Basket
	err := r.q(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("profile_id = ?", profileID).First(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ForProfileLocked reads the basket row FOR UPDATE, without lines.
func (r *BasketRepository) ForProfileLocked(ctx context.Context, profileID uint) (*models.Basket, error) {
	var b models.Basket
	if err := r.q(ctx).ForUpdate().Where("profile_id = ?", profileID).First(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// OpenLocked returns the profile's basket, creating an empty one bound to
// venueID if there is none. A concurrent creator loses the insert to the
// unique profile index and both end up reading the same row.
func (r *BasketRepository) OpenLocked(ctx context.Context, profileID, venueID uint) (*models.Basket, error) {
	fresh := models.Basket{ProfileID: profileID, VenueID: venueID}
	err := r.q(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoNothing: true,
	}).Create(&fresh)
	if err != nil {
		return nil, err
	}
	return r.ForProfileLocked(ctx, profileID)
}

func (r *BasketRepository) LineByName(ctx context.Context, basketID uint, name string) (*models.BasketLine, error) {
	var l models.BasketLine
	if err := r.q(ctx).Where("basket_id = ? AND item_name = ?", basketID, name).First(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *BasketRepository) Line(ctx context.Context, basketID, lineID uint) (*models.BasketLine, error) {
	var l models.BasketLine
	if err := r.q(ctx).Where("id = ? AND basket_id = ?", lineID, basketID).First(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *BasketRepository) Lines(ctx context.Context, basketID uint) ([]models.BasketLine, error) {
	lines := []models.BasketLine{}
	err := r.q(ctx).Where("basket_id = ?", basketID).Order("id").Get(&lines)
	return lines, err
}

func (r *BasketRepository) AddLine(ctx context.Context, l *models.BasketLine) error {
	return r.q(ctx).Create(l)
}

func (r *BasketRepository) SetLineQuantity(ctx context.Context, lineID uint, qty int) error {
	return r.q(ctx).Model(&models.BasketLine{}).Where("id = ?", lineID).Updates(map[string]interface{}{
		"quantity":   qty,
		"updated_at": time.Now(),
	})
}

func (r *BasketRepository) DeleteLine(ctx context.Context, lineID uint) error {
	_, err := r.q(ctx).Where("id = ?", lineID).Delete(&models.BasketLine{})
	return err
}

// SetTotals stores the running totals of b.
func (r *BasketRepository) SetTotals(ctx context.Context, b *models.Basket) error {
	b.UpdatedAt = time.Now()
	return r.q(ctx).Model(&models.Basket{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"item_count": b.ItemCount,
		"total_cost": b.TotalCost,
		"updated_at": b.UpdatedAt,
	})
}

// Delete removes a basket together with its lines.
func (r *BasketRepository) Delete(ctx context.Context, basketID uint) error {
	if _, err := r.q(ctx).Where("basket_id = ?", basketID).Delete(&models.BasketLine{}); err != nil {
		return err
	}
	_, err := r.q(ctx).Where("id = ?", basketID).Delete(&models.Basket{})
	return err
}

// IDs returns the ids of baskets matching the condition.
func (r *BasketRepository) IDs(ctx context.Context, query string, args ...interface{}) ([]uint, error) {
	var ids []uint
	err := r.q(ctx).Model(&models.Basket{}).Where(query, args...).Pluck("id", &ids)
	return ids, err
}

// DeleteMany removes baskets and their lines by id.
func (r *BasketRepository) DeleteMany(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if _, err := r.q(ctx).Where("basket_id IN ?", ids).Delete(&models.BasketLine{}); err != nil {
		return 0, err
	}
	return r.q(ctx).Where("id IN ?", ids).Delete(&models.Basket{})
}
