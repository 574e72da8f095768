// Package repositories reads and writes models through pkg/orm. Each
// repository wraps one *gorm.DB, so a service builds them from its
// transaction handle to keep every step inside the same transaction.
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) q(ctx context.Context) *orm.Query {
	return orm.On(r.db).WithContext(ctx)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.q(ctx).Where("id = ?", id).First(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.q(ctx).Where("username = ?", username).First(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.q(ctx).Model(&models.User{}).Where("username = ?", username).Exists()
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.q(ctx).Create(u)
}
