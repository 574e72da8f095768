package services

import (
	"context"
	"errors"
	"time"

	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/events"
	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/pkg/event"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/orm"
	"github.com/shashiranjanraj/canteen/pkg/rbac"
)

// Viewer is the authenticated caller as seen by the order queries.
type Viewer struct {
	UserID uint
	Role   string
}

func (v Viewer) IsSeller() bool { return v.Role == rbac.Seller }

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// sellerVenue resolves the venue owned by a seller account.
func sellerVenue(ctx context.Context, tx *gorm.DB, userID uint) (*models.Venue, error) {
	sp, err := repositories.NewProfileRepository(tx).SellerForUser(ctx, userID)
	if orm.IsNotFound(err) {
		return nil, ErrNoVenue
	}
	if err != nil {
		return nil, err
	}
	v, err := repositories.NewVenueRepository(tx).ForSeller(ctx, sp.ID)
	if orm.IsNotFound(err) {
		return nil, ErrNoVenue
	}
	return v, err
}

// Fulfill closes a pending order of the seller's venue. The order moves to
// fulfilled and drops out of every pending list.
func (s *OrderService) Fulfill(ctx context.Context, sellerUserID, orderID uint) (*models.Order, error) {
	var out *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)

		o, err := orders.FindLocked(ctx, orderID)
		if err != nil {
			return missing(err, "order")
		}
		if o.Status != models.OrderPending {
			return missing(orm.ErrNotFound, "pending order")
		}

		v, err := sellerVenue(ctx, tx, sellerUserID)
		if errors.Is(err, ErrNoVenue) {
			return ErrAuthorizationDenied
		}
		if err != nil {
			return err
		}
		if v.ID != o.VenueID {
			return ErrAuthorizationDenied
		}

		if err := orders.MarkFulfilled(ctx, o, time.Now().UTC()); err != nil {
			return err
		}
		out, err = orders.Find(ctx, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("order fulfilled", "order_id", out.ID, "venue_id", out.VenueID)
	event.FireAsync(ctx, events.OrderFulfilled, orderEvent(events.OrderFulfilled, out))
	return out, nil
}

// List pages through the viewer's orders with the given status: a seller
// sees their venue's orders, a student their own.
func (s *OrderService) List(ctx context.Context, v Viewer, status string, page, perPage int) ([]models.Order, orm.Pagination, error) {
	if status == "" {
		status = models.OrderPending
	}
	f := repositories.OrderFilter{Status: status}
	if v.IsSeller() {
		venue, err := sellerVenue(ctx, s.db.WithContext(ctx), v.UserID)
		if err != nil {
			return nil, orm.Pagination{}, err
		}
		f.VenueID = venue.ID
	} else {
		p, err := repositories.NewProfileRepository(s.db).ForUser(ctx, v.UserID)
		if orm.IsNotFound(err) {
			return nil, orm.Pagination{}, ErrNoProfile
		}
		if err != nil {
			return nil, orm.Pagination{}, err
		}
		f.ProfileID = p.ID
	}
	return repositories.NewOrderRepository(s.db).List(ctx, f, page, perPage)
}

// Show returns an order visible to the viewer: the student who placed it or
// the seller of its venue.
func (s *OrderService) Show(ctx context.Context, v Viewer, orderID uint) (*models.Order, error) {
	o, err := repositories.NewOrderRepository(s.db).Find(ctx, orderID)
	if err != nil {
		return nil, missing(err, "order")
	}

	if v.IsSeller() {
		venue, err := sellerVenue(ctx, s.db.WithContext(ctx), v.UserID)
		if errors.Is(err, ErrNoVenue) || (err == nil && venue.ID != o.VenueID) {
			return nil, ErrAuthorizationDenied
		}
		if err != nil {
			return nil, err
		}
		return o, nil
	}

	p, err := repositories.NewProfileRepository(s.db).ForUser(ctx, v.UserID)
	if orm.IsNotFound(err) || (err == nil && p.ID != o.ProfileID) {
		return nil, ErrAuthorizationDenied
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// PickupQR renders the order's pickup code as a PNG.
func (s *OrderService) PickupQR(ctx context.Context, v Viewer, orderID uint, size int) ([]byte, error) {
	o, err := s.Show(ctx, v, orderID)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(o.PickupCode, qrcode.Medium, size)
}

// PurgeFulfilled hard-deletes fulfilled orders older than retention.
func (s *OrderService) PurgeFulfilled(ctx context.Context, retention time.Duration) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = repositories.NewOrderRepository(tx).PurgeFulfilledBefore(ctx, time.Now().Add(-retention))
		return err
	})
	return n, err
}
