package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/collection"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

// OrderFilter selects orders for a listing. Zero fields do not filter.
type OrderFilter struct {
	ProfileID uint
	VenueID   uint
	Status    string
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) q(ctx context.Context) *orm.Query {
	return orm.On(r.db).WithContext(ctx)
}

func orderedLines(db *gorm.DB) *gorm.DB { return db.Order("id") }

// Create inserts the order and its lines.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.q(ctx).Create(o)
}

func (r *OrderRepository) Find(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.q(ctx).Preload("Lines", orderedLines).Where("id = ?", id).First(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindLocked(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.q(ctx).ForUpdate().Where("id = ?", id).First(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// List pages through orders, oldest first, with their lines.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter, page, perPage int) ([]models.Order, orm.Pagination, error) {
	q := r.q(ctx).Model(&models.Order{})
	if f.ProfileID != 0 {
		q = q.Where("profile_id = ?", f.ProfileID)
	}
	if f.VenueID != 0 {
		q = q.Where("venue_id = ?", f.VenueID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	orders := []models.Order{}
	p, err := q.Order("created_at").Order("id").Paginate(&orders, page, perPage)
	if err != nil || len(orders) == 0 {
		return orders, p, err
	}
	return orders, p, r.attachLines(ctx, orders)
}

func (r *OrderRepository) attachLines(ctx context.Context, orders []models.Order) error {
	ids := collection.Map(orders, func(o models.Order) uint { return o.ID })
	var lines []models.OrderLine
	if err := r.q(ctx).Where("order_id IN ?", ids).Order("id").Get(&lines); err != nil {
		return err
	}
	byOrder := collection.GroupBy(lines, func(l models.OrderLine) uint { return l.OrderID })
	for i := range orders {
		orders[i].Lines = byOrder[orders[i].ID]
		if orders[i].Lines == nil {
			orders[i].Lines = []models.OrderLine{}
		}
	}
	return nil
}

func (r *OrderRepository) MarkFulfilled(ctx context.Context, o *models.Order, at time.Time) error {
	o.Status = models.OrderFulfilled
	o.FulfilledAt = &at
	o.UpdatedAt = at
	return r.q(ctx).Model(&models.Order{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"status":       o.Status,
		"fulfilled_at": at,
		"updated_at":   at,
	})
}

// PurgeFulfilledBefore hard-deletes fulfilled orders closed before cutoff.
func (r *OrderRepository) PurgeFulfilledBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var ids []uint
	err := r.q(ctx).Model(&models.Order{}).
		Where("status = ? AND fulfilled_at < ?", models.OrderFulfilled, cutoff).
		Pluck("id", &ids)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	if _, err := r.q(ctx).Where("order_id IN ?", ids).Delete(&models.OrderLine{}); err != nil {
		return 0, err
	}
	return r.q(ctx).Where("id IN ?", ids).Delete(&models.Order{})
}
