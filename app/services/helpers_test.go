package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/database"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fixture is two venues with their sellers and one student.
type fixture struct {
	db *gorm.DB

	student models.User
	profile models.Profile

	seller      models.User
	sellerProf  models.SellerProfile
	venue       models.Venue
	samosa      models.MenuItem
	chai        models.MenuItem
	soldOut     models.MenuItem
	rival       models.User
	rivalProf   models.SellerProfile
	rivalVenue  models.Venue
	dosa        models.MenuItem
}

func create(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	require.NoError(t, db.Create(v).Error)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: newDB(t)}

	f.student = models.User{Username: "asha", Email: "f20190123@campus.edu", Password: "x", Role: "student"}
	create(t, f.db, &f.student)
	f.profile = models.Profile{UserID: f.student.ID, Name: "Asha", Hostel: "SR", RoomNo: 100, Branch: "A7"}
	create(t, f.db, &f.profile)

	f.seller = models.User{Username: "ravi", Email: "ravi@campus.edu", Password: "x", Role: "seller"}
	create(t, f.db, &f.seller)
	f.sellerProf = models.SellerProfile{UserID: f.seller.ID, PhoneNo: "9999999999"}
	create(t, f.db, &f.sellerProf)
	f.venue = models.Venue{SellerID: f.sellerProf.ID, Name: "Redi", RatingAverage: 5}
	create(t, f.db, &f.venue)

	f.samosa = models.MenuItem{VenueID: f.venue.ID, Name: "Samosa", Price: 20, Description: "spicy", Available: true, RatingAverage: 5}
	f.chai = models.MenuItem{VenueID: f.venue.ID, Name: "Chai", Price: 10, Available: true, RatingAverage: 5}
	f.soldOut = models.MenuItem{VenueID: f.venue.ID, Name: "Maggi", Price: 30, RatingAverage: 5}
	create(t, f.db, &f.samosa)
	create(t, f.db, &f.chai)
	create(t, f.db, &f.soldOut)
	require.NoError(t, f.db.Model(&f.soldOut).Update("available", false).Error)

	f.rival = models.User{Username: "meena", Email: "meena@campus.edu", Password: "x", Role: "seller"}
	create(t, f.db, &f.rival)
	f.rivalProf = models.SellerProfile{UserID: f.rival.ID, PhoneNo: "9999999999"}
	create(t, f.db, &f.rivalProf)
	f.rivalVenue = models.Venue{SellerID: f.rivalProf.ID, Name: "Looters", RatingAverage: 5}
	create(t, f.db, &f.rivalVenue)
	f.dosa = models.MenuItem{VenueID: f.rivalVenue.ID, Name: "Dosa", Price: 45, Available: true, RatingAverage: 5}
	create(t, f.db, &f.dosa)

	return f
}
