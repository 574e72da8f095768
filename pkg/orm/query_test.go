package orm_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/pkg/database"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

type dish struct {
	ID    uint
	Name  string
	Price int64
}

func TestPaginate(t *testing.T) {
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dish{}))
	for i := 1; i <= 7; i++ {
		require.NoError(t, orm.On(db).Create(&dish{Name: fmt.Sprintf("dish-%d", i), Price: int64(i * 10)}))
	}

	var page []dish
	p, err := orm.On(db).Model(&dish{}).Order("id").Paginate(&page, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.Total)
	assert.Equal(t, 3, p.TotalPages)
	require.Len(t, page, 3)
	assert.Equal(t, "dish-4", page[0].Name)
}

func TestNewPaginationClamps(t *testing.T) {
	p := orm.NewPagination(0, 1000)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, orm.MaxPerPage, p.PerPage)

	p = orm.NewPagination(3, 0)
	assert.Equal(t, orm.DefaultPerPage, p.PerPage)
}

func TestFirstNotFound(t *testing.T) {
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dish{}))

	var d dish
	err = orm.On(db).Where("name = ?", "nope").First(&d)
	assert.True(t, orm.IsNotFound(err))

	ok, err := orm.On(db).Model(&dish{}).Where("price > ?", 0).Exists()
	require.NoError(t, err)
	assert.False(t, ok)
}
