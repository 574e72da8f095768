package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/auth"
	"github.com/shashiranjanraj/canteen/pkg/rbac"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "canteen-demo"

type demoVenue struct {
	owner string
	name  string
	menu  []models.MenuItem
}

var demoVenues = []demoVenue{
	{owner: "redi_owner", name: "Redi", menu: []models.MenuItem{
		{Name: "Samosa", Price: 20, Description: "Two pieces, with chutney"},
		{Name: "Chai", Price: 10},
		{Name: "Maggi", Price: 30, Description: "Masala"},
	}},
	{owner: "looters_owner", name: "Looters", menu: []models.MenuItem{
		{Name: "Masala Dosa", Price: 45},
		{Name: "Cold Coffee", Price: 40},
	}},
}

func init() {
	Register("demo_catalogue", SeedDemoCatalogue)
	Register("demo_student", SeedDemoStudent)
}

// SeedDemoCatalogue creates two sellers with a restaurant and menu each.
// Sellers that already exist are left alone.
func SeedDemoCatalogue(db *gorm.DB) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	for _, dv := range demoVenues {
		dv := dv
		err := db.Transaction(func(tx *gorm.DB) error {
			created, u, err := ensureUser(tx, dv.owner, dv.owner+"@campus.edu", hash, rbac.Seller)
			if err != nil || !created {
				return err
			}
			sp := models.SellerProfile{UserID: u.ID, PhoneNo: models.DefaultSellerPhone}
			if err := tx.Create(&sp).Error; err != nil {
				return err
			}
			v := models.Venue{Name: dv.name, SellerID: sp.ID, RatingAverage: models.DefaultRating}
			if err := tx.Create(&v).Error; err != nil {
				return err
			}
			for _, it := range dv.menu {
				it.VenueID = v.ID
				it.Available = true
				it.RatingAverage = models.DefaultRating
				if err := tx.Create(&it).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedDemoStudent creates a student account with a profile.
func SeedDemoStudent(db *gorm.DB) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		created, u, err := ensureUser(tx, "demo_student", "f20190123@campus.edu", hash, rbac.Student)
		if err != nil || !created {
			return err
		}
		return tx.Create(&models.Profile{
			UserID:     u.ID,
			Name:       "Demo",
			ExternalID: "2019A7PS0123P",
			Hostel:     models.DefaultHostel,
			RoomNo:     models.DefaultRoomNo,
			Branch:     models.DefaultBranch,
		}).Error
	})
}

func ensureUser(tx *gorm.DB, username, email, hash, role string) (bool, *models.User, error) {
	var u models.User
	err := tx.Where("username = ?", username).First(&u).Error
	if err == nil {
		return false, &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, err
	}
	u = models.User{Username: username, Email: email, Password: hash, Role: role}
	if err := tx.Create(&u).Error; err != nil {
		return false, nil, err
	}
	return true, &u, nil
}
