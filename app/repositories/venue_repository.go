package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) q(ctx context.Context) *orm.Query {
	return orm.On(r.db).WithContext(ctx)
}

func (r *VenueRepository) Find(ctx context.Context, id uint) (*models.Venue, error) {
	var v models.Venue
	if err := r.q(ctx).Where("id = ?", id).First(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindLocked reads the venue FOR UPDATE.
func (r *VenueRepository) FindLocked(ctx context.Context, id uint) (*models.Venue, error) {
	var v models.Venue
	if err := r.q(ctx).ForUpdate().Where("id = ?", id).First(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VenueRepository) ForSeller(ctx context.Context, sellerID uint) (*models.Venue, error) {
	var v models.Venue
	if err := r.q(ctx).Where("seller_id = ?", sellerID).First(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Search pages through venues whose name contains term, ignoring case.
func (r *VenueRepository) Search(ctx context.Context, term string, page, perPage int) ([]models.Venue, orm.Pagination, error) {
	q := r.q(ctx).Model(&models.Venue{})
	if term = strings.TrimSpace(term); term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	venues := []models.Venue{}
	p, err := q.Order("name").Order("id").Paginate(&venues, page, perPage)
	return venues, p, err
}

func (r *VenueRepository) Create(ctx context.Context, v *models.Venue) error {
	return r.q(ctx).Create(v)
}

func (r *VenueRepository) Save(ctx context.Context, v *models.Venue) error {
	return r.q(ctx).Save(v)
}

func (r *VenueRepository) Delete(ctx context.Context, id uint) error {
	_, err := r.q(ctx).Where("id = ?", id).Delete(&models.Venue{})
	return err
}

// SetRating stores a freshly computed aggregate on the venue row.
func (r *VenueRepository) SetRating(ctx context.Context, id uint, avg float64, count int64) error {
	return r.q(ctx).Model(&models.Venue{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating_average": avg,
		"rating_count":   count,
	})
}
