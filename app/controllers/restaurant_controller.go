package controllers

import (
	"github.com/shashiranjanraj/canteen/app/resources"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/ctx"
	"github.com/shashiranjanraj/canteen/pkg/orm"
	"github.com/shashiranjanraj/canteen/pkg/resource"
)

type RestaurantController struct {
	catalog *services.CatalogService
}

func NewRestaurantController(catalog *services.CatalogService) *RestaurantController {
	return &RestaurantController{catalog: catalog}
}

// Index: GET /api/restaurants?search=&page=&per_page=
func (h *RestaurantController) Index(c *ctx.Context) {
	page, err := h.catalog.ListVenues(c.Context(), c.Query("search"),
		c.QueryInt("page", 1), c.QueryInt("per_page", orm.DefaultPerPage))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(resource.Many(resources.Venue, page.Items), page.Pagination)
}

func (h *RestaurantController) Show(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := h.catalog.Venue(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Venue(*v))
}

// Mine: GET /api/restaurants/mine
func (h *RestaurantController) Mine(c *ctx.Context) {
	v, err := h.catalog.MyVenue(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Venue(*v))
}

func (h *RestaurantController) Store(c *ctx.Context) {
	var in services.VenueInput
	if !c.BindJSON(&in) {
		return
	}
	v, err := h.catalog.CreateVenue(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.Venue(*v))
}

func (h *RestaurantController) Update(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.VenueInput
	if !c.BindJSON(&in) {
		return
	}
	v, err := h.catalog.UpdateVenue(c.Context(), c.UserID(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Venue(*v))
}

func (h *RestaurantController) Destroy(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteVenue(c.Context(), c.UserID(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
