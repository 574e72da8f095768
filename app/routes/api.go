// Package routes binds the controllers to URLs under /api.
package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/controllers"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/app/services/studentid"
	"github.com/shashiranjanraj/canteen/pkg/ctx"
	"github.com/shashiranjanraj/canteen/pkg/middleware"
	"github.com/shashiranjanraj/canteen/pkg/rbac"
	"github.com/shashiranjanraj/canteen/pkg/router"
	"github.com/shashiranjanraj/canteen/pkg/ws"
)

// RegisterAPI wires every endpoint onto r. hub carries the sellers' live
// order feeds.
func RegisterAPI(r *router.Router, db *gorm.DB, hub *ws.Hub) {
	var (
		accounts = services.NewAccountService(db)
		profiles = services.NewProfileService(db, studentid.SliceDeriver{})
		catalog  = services.NewCatalogService(db)
		baskets  = services.NewBasketService(db)
		orders   = services.NewOrderService(db)
		ratings  = services.NewRatingService(db)

		authC       = controllers.NewAuthController(accounts)
		profileC    = controllers.NewProfileController(profiles)
		restaurantC = controllers.NewRestaurantController(catalog)
		itemC       = controllers.NewItemController(catalog)
		basketC     = controllers.NewBasketController(baskets, profiles)
		orderC      = controllers.NewOrderController(orders, catalog, hub)
		ratingC     = controllers.NewRatingController(ratings)
	)

	students := rbac.HasRole(rbac.Student)
	sellers := rbac.HasRole(rbac.Seller)

	api := r.Group("/api")

	// Public
	pub := api.Group("/auth")
	pub.Post("/register", "auth.register", ctx.Wrap(authC.Register))
	pub.Post("/login", "auth.login", ctx.Wrap(authC.Login))
	pub.Post("/token/refresh", "auth.refresh", ctx.Wrap(authC.Refresh))

	catalogue := api.Group("")
	catalogue.Get("/restaurants", "restaurants.index", ctx.Wrap(restaurantC.Index))
	catalogue.Get("/restaurants/{id}", "restaurants.show", ctx.Wrap(restaurantC.Show))
	catalogue.Get("/items", "items.index", ctx.Wrap(itemC.Index))
	catalogue.Get("/items/{id}", "items.show", ctx.Wrap(itemC.Show))

	// Authenticated
	authed := api.Group("", middleware.Auth)
	authed.Post("/auth/logout", "auth.logout", ctx.Wrap(authC.Logout))
	authed.Get("/auth/user", "auth.user", ctx.Wrap(authC.Me))

	up := authed.Group("/user-profiles", students)
	up.Post("/create_profile", "profiles.create", ctx.Wrap(profileC.Create))
	up.Get("/me", "profiles.show", ctx.Wrap(profileC.Show))
	up.Patch("/me", "profiles.update", ctx.Wrap(profileC.Update))

	sp := authed.Group("/seller-profiles", sellers)
	sp.Get("/me", "seller_profiles.show", ctx.Wrap(profileC.ShowSeller))
	sp.Patch("/me", "seller_profiles.update", ctx.Wrap(profileC.UpdateSeller))

	rest := authed.Group("/restaurants")
	rest.Get("/mine", "restaurants.mine", ctx.Wrap(restaurantC.Mine), sellers)
	rest.Post("", "restaurants.store", ctx.Wrap(restaurantC.Store), sellers)
	rest.Patch("/{id}", "restaurants.update", ctx.Wrap(restaurantC.Update), sellers)
	rest.Delete("/{id}", "restaurants.destroy", ctx.Wrap(restaurantC.Destroy), sellers)

	items := authed.Group("/items")
	items.Get("/mine", "items.mine", ctx.Wrap(itemC.Mine), sellers)
	items.Post("", "items.store", ctx.Wrap(itemC.Store), sellers)
	items.Patch("/{id}", "items.update", ctx.Wrap(itemC.Update), sellers)
	items.Delete("/{id}", "items.destroy", ctx.Wrap(itemC.Destroy), sellers)
	items.Post("/{id}/image", "items.image", ctx.Wrap(itemC.UploadImage), sellers)

	basket := authed.Group("/basket", students)
	basket.Get("/current", "basket.current", ctx.Wrap(basketC.Current))
	basket.Post("/add_item", "basket.add_item", ctx.Wrap(basketC.AddItem))
	basket.Post("/remove_item", "basket.remove_item", ctx.Wrap(basketC.RemoveItem))
	basket.Post("/clear", "basket.clear", ctx.Wrap(basketC.Clear))
	basket.Post("/place_order", "basket.place_order", ctx.Wrap(basketC.PlaceOrder))

	ord := authed.Group("/orders")
	ord.Get("", "orders.index", ctx.Wrap(orderC.Index))
	ord.Get("/{id}", "orders.show", ctx.Wrap(orderC.Show))
	ord.Post("/{id}/complete", "orders.complete", ctx.Wrap(orderC.Complete), sellers)
	ord.Get("/{id}/qrcode", "orders.qrcode", ctx.Wrap(orderC.QRCode))

	authed.Post("/ratings", "ratings.items", ctx.Wrap(ratingC.RateItem))
	authed.Post("/restaurant-ratings", "ratings.restaurants", ctx.Wrap(ratingC.RateRestaurant))

	authed.Get("/ws/orders", "orders.feed", ctx.Wrap(orderC.Feed), sellers)
}
