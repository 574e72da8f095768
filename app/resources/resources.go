// Package resources renders models as API payloads. Field names follow the
// wire format mobile clients already speak (restraunt_name, item_price, ...).
package resources

import (
	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/resource"
	"github.com/shashiranjanraj/canteen/pkg/storage"
)

type Map = resource.Map

func User(u models.User) Map {
	return Map{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
}

func Profile(p models.Profile) Map {
	return Map{
		"id":          p.ID,
		"user":        p.UserID,
		"name":        p.Name,
		"bits_id":     p.ExternalID,
		"hostel":      p.Hostel,
		"room_no":     p.RoomNo,
		"user_branch": p.Branch,
	}
}

func SellerProfile(sp models.SellerProfile) Map {
	return Map{
		"id":              sp.ID,
		"user":            sp.UserID,
		"seller_phone_no": sp.PhoneNo,
	}
}

func Venue(v models.Venue) Map {
	return Map{
		"id":                     v.ID,
		"restraunt_name":         v.Name,
		"restraunt_rating_value": v.RatingAverage,
		"rating_count":           v.RatingCount,
		"of_seller":              v.SellerID,
	}
}

func Item(it models.MenuItem) Map {
	return Map{
		"id":               it.ID,
		"item_name":        it.Name,
		"item_price":       it.Price,
		"item_description": it.Description,
		"item_image":       storage.URL(it.ImagePath),
		"available":        it.Available,
		"item_rating":      it.RatingAverage,
		"rating_count":     it.RatingCount,
		"of_restraunt":     it.VenueID,
	}
}

func BasketLine(l models.BasketLine) Map {
	return Map{
		"id":               l.ID,
		"item_name":        l.ItemName,
		"item_description": l.Description,
		"item_cost":        l.UnitCost,
		"item_quantity":    l.Quantity,
		"item_image":       storage.URL(l.ImagePath),
		"total_cost_item":  int64(l.Quantity) * l.UnitCost,
	}
}

func Basket(b models.Basket) Map {
	return Map{
		"id":           b.ID,
		"no_of_items":  b.ItemCount,
		"total_cost":   b.TotalCost,
		"of_restraunt": b.VenueID,
		"items":        resource.Many(BasketLine, b.Lines),
	}
}

func OrderLine(l models.OrderLine) Map {
	return Map{
		"id":            l.ID,
		"item_name":     l.ItemName,
		"item_price":    l.UnitPrice,
		"item_quantity": l.Quantity,
	}
}

func Order(o models.Order) Map {
	return Map{
		"id":           o.ID,
		"order_price":  o.TotalPrice,
		"no_of_items":  o.ItemCount,
		"of_student":   o.ProfileID,
		"order_to":     o.VenueID,
		"status":       o.Status,
		"pickup_code":  o.PickupCode,
		"created_at":   o.CreatedAt,
		"fulfilled_at": o.FulfilledAt,
		"items":        resource.Many(OrderLine, o.Lines),
	}
}

func ItemRating(r models.ItemRating) Map {
	return Map{
		"id":           r.ID,
		"rating_value": r.Value,
		"rating_by":    r.UserID,
		"rated_item":   r.ItemID,
	}
}

func VenueRating(r models.VenueRating) Map {
	return Map{
		"id":              r.ID,
		"rating_value":    r.Value,
		"rating_by":       r.UserID,
		"rated_restraunt": r.VenueID,
	}
}

// Session is the register/login payload.
func Session(s services.Session) Map {
	return Map{
		"user":      User(*s.User),
		"user_type": s.UserType,
		"tokens":    s.Tokens,
	}
}

// Me is the current account with whichever profile it has.
func Me(m services.Me) Map {
	out := Map{"user": User(*m.User), "user_type": m.UserType, "profile": nil}
	switch p := m.Profile.(type) {
	case *models.Profile:
		out["profile"] = Profile(*p)
	case *models.SellerProfile:
		out["profile"] = SellerProfile(*p)
	}
	return out
}
