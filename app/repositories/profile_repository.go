package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

// ProfileRepository covers both student and seller profiles.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) q(ctx context.Context) *orm.Query {
	return orm.On(r.db).WithContext(ctx)
}

func (r *ProfileRepository) ForUser(ctx context.Context, userID uint) (*models.Profile, error) {
	var p models.Profile
	if err := r.q(ctx).Where("user_id = ?", userID).First(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Exists(ctx context.Context, userID uint) (bool, error) {
	return r.q(ctx).Model(&models.Profile{}).Where("user_id = ?", userID).Exists()
}

func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	return r.q(ctx).Create(p)
}

func (r *ProfileRepository) Save(ctx context.Context, p *models.Profile) error {
	return r.q(ctx).Save(p)
}

func (r *ProfileRepository) SellerForUser(ctx context.Context, userID uint) (*models.SellerProfile, error) {
	var sp models.SellerProfile
	if err := r.q(ctx).Where("user_id = ?", userID).First(&sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *ProfileRepository) CreateSeller(ctx context.Context, sp *models.SellerProfile) error {
	return r.q(ctx).Create(sp)
}

func (r *ProfileRepository) SaveSeller(ctx context.Context, sp *models.SellerProfile) error {
	return r.q(ctx).Save(sp)
}
