// Package migrations registers the canteen schema with pkg/migration.
// cmd/canteen imports it for its side effects.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/migration"
	"github.com/shashiranjanraj/canteen/pkg/queue"
)

func init() {
	migration.Register("20260101000000_create_accounts_tables", tables{&models.User{}, &models.Profile{}, &models.SellerProfile{}})
	migration.Register("20260101000001_create_catalogue_tables", tables{&models.Venue{}, &models.MenuItem{}})
	migration.Register("20260101000002_create_baskets_tables", tables{&models.Basket{}, &models.BasketLine{}})
	migration.Register("20260101000003_create_orders_tables", tables{&models.Order{}, &models.OrderLine{}})
	migration.Register("20260101000004_create_ratings_tables", tables{&models.ItemRating{}, &models.VenueRating{}})
	migration.Register("20260101000005_create_failed_jobs_table", tables{&queue.FailedJobRecord{}})
}

// tables creates its models in order and drops them in reverse.
type tables []interface{}

func (t tables) Up(db *gorm.DB) error {
	return db.AutoMigrate(t...)
}

func (t tables) Down(db *gorm.DB) error {
	for i := len(t) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(t[i]); err != nil {
			return err
		}
	}
	return nil
}
