// Package models holds the gorm models of the canteen.
//
// Accounts and profiles are soft-deleted through gorm.Model. Everything on
// the ordering path uses plain primary keys, so deletes are hard and the
// unique indexes on baskets, basket lines and ratings stay usable.
package models

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Profile{}, &SellerProfile{},
		&Venue{}, &MenuItem{},
		&Basket{}, &BasketLine{},
		&Order{}, &OrderLine{},
		&ItemRating{}, &VenueRating{},
	}
}
