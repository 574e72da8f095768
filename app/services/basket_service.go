package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/events"
	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/pkg/event"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

// BasketService manages a student's single-venue basket. Every operation
// runs in one transaction with the basket row locked.
type BasketService struct {
	db *gorm.DB
}

func NewBasketService(db *gorm.DB) *BasketService {
	return &BasketService{db: db}
}

// Current returns the basket with its lines, or nil when there is none.
func (s *BasketService) Current(ctx context.Context, profileID uint) (*models.Basket, error) {
	b, err := repositories.NewBasketRepository(s.db).ForProfile(ctx, profileID)
	if orm.IsNotFound(err) {
		return nil, nil
	}
	return b, err
}

// AddItem puts one unit of the menu item into the basket, opening a basket
// bound to the item's venue if needed. Repeat adds of the same item name
// bump the quantity and keep the prices copied at the first add.
func (s *BasketService) AddItem(ctx context.Context, profileID, itemID uint) (*models.Basket, error) {
	var out *models.Basket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		baskets := repositories.NewBasketRepository(tx)

		item, err := repositories.NewMenuItemRepository(tx).Find(ctx, itemID)
		if err != nil {
			return missing(err, "menu item")
		}
		if !item.Available {
			return ErrItemUnavailable
		}

		b, err := baskets.OpenLocked(ctx, profileID, item.VenueID)
		if err != nil {
			return err
		}
		if b.VenueID != item.VenueID {
			return ErrCrossVenueConflict
		}

		line, err := baskets.LineByName(ctx, b.ID, item.Name)
		switch {
		case err == nil:
			err = baskets.SetLineQuantity(ctx, line.ID, line.Quantity+1)
		case orm.IsNotFound(err):
			err = baskets.AddLine(ctx, &models.BasketLine{
				BasketID:    b.ID,
				ItemName:    item.Name,
				UnitCost:    item.Price,
				Quantity:    1,
				Description: item.Description,
				ImagePath:   item.ImagePath,
			})
		}
		if err != nil {
			return err
		}

		b.ItemCount++
		b.TotalCost += item.Price
		if err := baskets.SetTotals(ctx, b); err != nil {
			return err
		}
		out, err = baskets.ForProfile(ctx, profileID)
		return err
	})
	if errors.Is(err, ErrCrossVenueConflict) {
		metrics.BasketConflicts.Inc()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveLine drops a whole line. When that empties the basket the basket
// is deleted and nil is returned.
func (s *BasketService) RemoveLine(ctx context.Context, profileID, lineID uint) (*models.Basket, error) {
	var out *models.Basket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		baskets := repositories.NewBasketRepository(tx)

		b, err := baskets.ForProfileLocked(ctx, profileID)
		if err != nil {
			return missing(err, "basket item")
		}
		line, err := baskets.Line(ctx, b.ID, lineID)
		if err != nil {
			return missing(err, "basket item")
		}

		b.TotalCost -= int64(line.Quantity) * line.UnitCost
		b.ItemCount -= line.Quantity
		if err := baskets.DeleteLine(ctx, line.ID); err != nil {
			return err
		}
		if b.ItemCount <= 0 {
			return baskets.Delete(ctx, b.ID)
		}
		if err := baskets.SetTotals(ctx, b); err != nil {
			return err
		}
		out, err = baskets.ForProfile(ctx, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear deletes the basket. Clearing when there is no basket is a no-op.
func (s *BasketService) Clear(ctx context.Context, profileID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		baskets := repositories.NewBasketRepository(tx)
		b, err := baskets.ForProfileLocked(ctx, profileID)
		if orm.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		return baskets.Delete(ctx, b.ID)
	})
}

// Checkout turns the basket into a pending order and deletes the basket,
// all or nothing.
func (s *BasketService) Checkout(ctx context.Context, profileID uint) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		baskets := repositories.NewBasketRepository(tx)

		b, err := baskets.ForProfileLocked(ctx, profileID)
		if orm.IsNotFound(err) {
			return ErrEmptyBasket
		}
		if err != nil {
			return err
		}
		lines, err := baskets.Lines(ctx, b.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyBasket
		}

		order = snapshot(b, lines)
		if err := repositories.NewOrderRepository(tx).Create(ctx, order); err != nil {
			return err
		}
		return baskets.Delete(ctx, b.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("basket checked out", "order_id", order.ID, "venue_id", order.VenueID, "total", order.TotalPrice)
	event.FireAsync(ctx, events.OrderPlaced, orderEvent(events.OrderPlaced, order))
	return order, nil
}

func snapshot(b *models.Basket, lines []models.BasketLine) *models.Order {
	o := &models.Order{
		ProfileID:  b.ProfileID,
		VenueID:    b.VenueID,
		TotalPrice: b.TotalCost,
		ItemCount:  b.ItemCount,
		Status:     models.OrderPending,
		PickupCode: uuid.NewString(),
		Lines:      make([]models.OrderLine, len(lines)),
	}
	for i, l := range lines {
		o.Lines[i] = models.OrderLine{ItemName: l.ItemName, UnitPrice: l.UnitCost, Quantity: l.Quantity}
	}
	return o
}

// PurgeIdle deletes baskets untouched for longer than idle.
func (s *BasketService) PurgeIdle(ctx context.Context, idle time.Duration) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		baskets := repositories.NewBasketRepository(tx)
		ids, err := baskets.IDs(ctx, "updated_at < ?", time.Now().Add(-idle))
		if err != nil {
			return err
		}
		n, err = baskets.DeleteMany(ctx, ids)
		return err
	})
	return n, err
}

func orderEvent(name string, o *models.Order) events.Order {
	return events.Order{
		Event:      name,
		OrderID:    o.ID,
		VenueID:    o.VenueID,
		ProfileID:  o.ProfileID,
		TotalPrice: o.TotalPrice,
		ItemCount:  o.ItemCount,
		Status:     o.Status,
		PickupCode: o.PickupCode,
		At:         time.Now().UTC(),
	}
}
