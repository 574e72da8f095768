package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/app/models"
	_ "github.com/shashiranjanraj/canteen/database/migrations"
	"github.com/shashiranjanraj/canteen/pkg/database"
	"github.com/shashiranjanraj/canteen/pkg/migration"
)

func TestSchemaUpAndDown(t *testing.T) {
	db, err := database.Open("sqlite", "file:migrations?mode=memory&cache=shared")
	require.NoError(t, err)
	r := migration.New(db)

	ran, err := r.Run()
	require.NoError(t, err)
	assert.Len(t, ran, 6)

	for _, table := range []string{"users", "profiles", "seller_profiles", "venues", "menu_items",
		"baskets", "basket_lines", "orders", "order_lines", "item_ratings", "venue_ratings", "failed_jobs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	again, err := r.Run()
	require.NoError(t, err)
	assert.Empty(t, again)

	back, err := r.Rollback()
	require.NoError(t, err)
	assert.Len(t, back, 6)
	assert.False(t, db.Migrator().HasTable("orders"))
	assert.False(t, db.Migrator().HasTable("users"))
}
