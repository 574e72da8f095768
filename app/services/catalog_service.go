package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/cache"
	"github.com/shashiranjanraj/canteen/pkg/collection"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/orm"
	"github.com/shashiranjanraj/canteen/pkg/storage"
)

// catalogVersionKey is bumped on every venue or menu write; listing cache
// keys embed it, so a bump orphans every cached listing at once.
const catalogVersionKey = "catalog:version"

type VenueInput struct {
	Name string `json:"name" validate:"required,max=15"`
}

type ItemInput struct {
	Name        string `json:"name"        validate:"required,max=25"`
	Price       int64  `json:"price"       validate:"min=0"`
	Description string `json:"description" validate:"nullable,max=2000"`
	Available   *bool  `json:"available"`
}

type ItemUpdate struct {
	Name        *string `json:"name"        validate:"nullable,max=25"`
	Price       *int64  `json:"price"       validate:"nullable,min=0"`
	Description *string `json:"description" validate:"nullable,max=2000"`
	Available   *bool   `json:"available"`
}

// VenuePage is one cached page of the venue directory.
type VenuePage struct {
	Items      []models.Venue `json:"items"`
	Pagination orm.Pagination `json:"pagination"`
}

// Upload is an image file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) cacheKey(ctx context.Context, parts ...interface{}) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "catalog:%d", cache.Version(ctx, catalogVersionKey))
	for _, p := range parts {
		fmt.Fprintf(&b, ":%v", p)
	}
	return b.String()
}

func (s *CatalogService) invalidate(ctx context.Context) { bumpCatalog(ctx) }

// bumpCatalog orphans every cached venue and menu listing. Call it after any
// committed write that changes what a listing shows, ratings included.
func bumpCatalog(ctx context.Context) {
	if err := cache.Bump(ctx, catalogVersionKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache bump failed", "error", err)
	}
}

// ── Venues ───────────────────────────────────────────────────────────────────

func (s *CatalogService) ListVenues(ctx context.Context, search string, page, perPage int) (*VenuePage, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	p := orm.NewPagination(page, perPage)
	var out VenuePage
	err := cache.Remember(ctx, s.cacheKey(ctx, "venues", search, p.Page, p.PerPage), config.MenuCacheTTL(), &out, func() error {
		var err error
		out.Items, out.Pagination, err = repositories.NewVenueRepository(s.db).Search(ctx, search, p.Page, p.PerPage)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) Venue(ctx context.Context, id uint) (*models.Venue, error) {
	v, err := repositories.NewVenueRepository(s.db).Find(ctx, id)
	if err != nil {
		return nil, missing(err, "restaurant")
	}
	return v, nil
}

// MyVenue returns the venue of the seller account.
func (s *CatalogService) MyVenue(ctx context.Context, sellerUserID uint) (*models.Venue, error) {
	return sellerVenue(ctx, s.db.WithContext(ctx), sellerUserID)
}

func (s *CatalogService) CreateVenue(ctx context.Context, sellerUserID uint, in VenueInput) (*models.Venue, error) {
	v := &models.Venue{Name: in.Name, RatingAverage: models.DefaultRating}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sp, err := repositories.NewProfileRepository(tx).SellerForUser(ctx, sellerUserID)
		if orm.IsNotFound(err) {
			return ErrAuthorizationDenied
		}
		if err != nil {
			return err
		}
		venues := repositories.NewVenueRepository(tx)
		if _, err := venues.ForSeller(ctx, sp.ID); err == nil {
			return ErrVenueExists
		} else if !orm.IsNotFound(err) {
			return err
		}
		v.SellerID = sp.ID
		if err := venues.Create(ctx, v); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrVenueExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return v, nil
}

// ownedVenue loads venue id and checks that the seller account owns it.
func ownedVenue(ctx context.Context, tx *gorm.DB, sellerUserID, id uint) (*models.Venue, error) {
	v, err := repositories.NewVenueRepository(tx).Find(ctx, id)
	if err != nil {
		return nil, missing(err, "restaurant")
	}
	mine, err := sellerVenue(ctx, tx, sellerUserID)
	if errors.Is(err, ErrNoVenue) || (err == nil && mine.ID != v.ID) {
		return nil, ErrAuthorizationDenied
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *CatalogService) UpdateVenue(ctx context.Context, sellerUserID, id uint, in VenueInput) (*models.Venue, error) {
	tx := s.db.WithContext(ctx)
	v, err := ownedVenue(ctx, tx, sellerUserID, id)
	if err != nil {
		return nil, err
	}
	v.Name = in.Name
	if err := repositories.NewVenueRepository(tx).Save(ctx, v); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return v, nil
}

// DeleteVenue removes the venue with its menu, its ratings and any basket
// still bound to it. Orders keep their venue id as history.
func (s *CatalogService) DeleteVenue(ctx context.Context, sellerUserID, id uint) error {
	var images []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedVenue(ctx, tx, sellerUserID, id); err != nil {
			return err
		}
		items, err := repositories.NewMenuItemRepository(tx).List(ctx, repositories.ItemFilter{VenueID: &id})
		if err != nil {
			return err
		}
		ids := collection.Map(items, func(it models.MenuItem) uint { return it.ID })
		withImage := collection.Filter(items, func(it models.MenuItem) bool { return it.ImagePath != "" })
		images = collection.Map(withImage, func(it models.MenuItem) string { return it.ImagePath })

		ratings := repositories.NewRatingRepository(tx)
		if err := ratings.DeleteForItems(ctx, ids...); err != nil {
			return err
		}
		if err := ratings.DeleteForVenue(ctx, id); err != nil {
			return err
		}
		if err := repositories.NewMenuItemRepository(tx).DeleteForVenue(ctx, id); err != nil {
			return err
		}
		baskets := repositories.NewBasketRepository(tx)
		stale, err := baskets.IDs(ctx, "venue_id = ?", id)
		if err != nil {
			return err
		}
		if _, err := baskets.DeleteMany(ctx, stale); err != nil {
			return err
		}
		return repositories.NewVenueRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	for _, p := range images {
		s.dropImage(ctx, p)
	}
	s.invalidate(ctx)
	return nil
}

// ── Menu items ───────────────────────────────────────────────────────────────

func (s *CatalogService) ListItems(ctx context.Context, f repositories.ItemFilter) ([]models.MenuItem, error) {
	venue, avail := "all", "all"
	if f.VenueID != nil {
		venue = fmt.Sprint(*f.VenueID)
	}
	if f.Available != nil {
		avail = fmt.Sprint(*f.Available)
	}
	var items []models.MenuItem
	err := cache.Remember(ctx, s.cacheKey(ctx, "items", venue, avail), config.MenuCacheTTL(), &items, func() error {
		var err error
		items, err = repositories.NewMenuItemRepository(s.db).List(ctx, f)
		return err
	})
	return items, err
}

func (s *CatalogService) Item(ctx context.Context, id uint) (*models.MenuItem, error) {
	it, err := repositories.NewMenuItemRepository(s.db).Find(ctx, id)
	if err != nil {
		return nil, missing(err, "menu item")
	}
	return it, nil
}

// MyItems lists the menu of the seller's venue.
func (s *CatalogService) MyItems(ctx context.Context, sellerUserID uint) ([]models.MenuItem, error) {
	v, err := s.MyVenue(ctx, sellerUserID)
	if err != nil {
		return nil, err
	}
	return repositories.NewMenuItemRepository(s.db).List(ctx, repositories.ItemFilter{VenueID: &v.ID})
}

// CreateItem adds an item to the seller's venue, with an optional image.
func (s *CatalogService) CreateItem(ctx context.Context, sellerUserID uint, in ItemInput, image *Upload) (*models.MenuItem, error) {
	v, err := s.MyVenue(ctx, sellerUserID)
	if err != nil {
		return nil, err
	}
	it := &models.MenuItem{
		VenueID:       v.ID,
		Name:          in.Name,
		Price:         in.Price,
		Description:   in.Description,
		Available:     true,
		RatingAverage: models.DefaultRating,
	}
	if in.Available != nil {
		it.Available = *in.Available
	}
	if err := repositories.NewMenuItemRepository(s.db).Create(ctx, it); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	if image != nil {
		return s.AttachImage(ctx, sellerUserID, it.ID, *image)
	}
	return it, nil
}

// ownedItem loads item id and checks that it is on the seller's venue.
func ownedItem(ctx context.Context, tx *gorm.DB, sellerUserID, id uint) (*models.MenuItem, error) {
	it, err := repositories.NewMenuItemRepository(tx).Find(ctx, id)
	if err != nil {
		return nil, missing(err, "menu item")
	}
	mine, err := sellerVenue(ctx, tx, sellerUserID)
	if errors.Is(err, ErrNoVenue) || (err == nil && mine.ID != it.VenueID) {
		return nil, ErrAuthorizationDenied
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// UpdateItem edits a menu item. Lines already in baskets keep the name,
// price and description they copied when added.
func (s *CatalogService) UpdateItem(ctx context.Context, sellerUserID, id uint, in ItemUpdate) (*models.MenuItem, error) {
	tx := s.db.WithContext(ctx)
	it, err := ownedItem(ctx, tx, sellerUserID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.Price != nil {
		it.Price = *in.Price
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	if in.Available != nil {
		it.Available = *in.Available
	}
	if err := repositories.NewMenuItemRepository(tx).Save(ctx, it); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return it, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, sellerUserID, id uint) error {
	var image string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		it, err := ownedItem(ctx, tx, sellerUserID, id)
		if err != nil {
			return err
		}
		image = it.ImagePath
		if err := repositories.NewRatingRepository(tx).DeleteForItems(ctx, id); err != nil {
			return err
		}
		return repositories.NewMenuItemRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.dropImage(ctx, image)
	s.invalidate(ctx)
	return nil
}

// AttachImage stores up as the item's image and removes the previous one.
func (s *CatalogService) AttachImage(ctx context.Context, sellerUserID, id uint, up Upload) (*models.MenuItem, error) {
	tx := s.db.WithContext(ctx)
	it, err := ownedItem(ctx, tx, sellerUserID, id)
	if err != nil {
		return nil, err
	}

	path := storage.ItemImagePath(it.ID, up.Filename)
	if err := storage.Default().Put(ctx, path, up.Body, up.ContentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	previous := it.ImagePath
	it.ImagePath = path
	if err := repositories.NewMenuItemRepository(tx).Save(ctx, it); err != nil {
		s.dropImage(ctx, path)
		return nil, err
	}
	s.dropImage(ctx, previous)
	s.invalidate(ctx)
	return it, nil
}

func (s *CatalogService) dropImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := storage.Default().Delete(ctx, path); err != nil {
		logger.WithCtx(ctx).Warn("catalog: image delete failed", "path", path, "error", err)
	}
}
