package controllers

import (
	"github.com/shashiranjanraj/canteen/app/resources"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/ctx"
	"github.com/shashiranjanraj/canteen/pkg/resource"
)

type rateItemRequest struct {
	ItemID uint `json:"rated_item"   validate:"required"`
	Value  int  `json:"rating_value" validate:"required"`
}

type rateVenueRequest struct {
	VenueID uint `json:"rated_restraunt" validate:"required"`
	Value   int  `json:"rating_value"    validate:"required"`
}

type RatingController struct {
	ratings *services.RatingService
}

func NewRatingController(ratings *services.RatingService) *RatingController {
	return &RatingController{ratings: ratings}
}

// RateItem: POST /api/ratings
func (h *RatingController) RateItem(c *ctx.Context) {
	var req rateItemRequest
	if !c.BindJSON(&req) {
		return
	}
	r, it, err := h.ratings.RateItem(c.Context(), c.UserID(), req.ItemID, req.Value)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.With(resources.ItemRating(*r), resource.Map{
		"item_rating":  it.RatingAverage,
		"rating_count": it.RatingCount,
	}))
}

// RateRestaurant: POST /api/restaurant-ratings
func (h *RatingController) RateRestaurant(c *ctx.Context) {
	var req rateVenueRequest
	if !c.BindJSON(&req) {
		return
	}
	r, v, err := h.ratings.RateVenue(c.Context(), c.UserID(), req.VenueID, req.Value)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.With(resources.VenueRating(*r), resource.Map{
		"restraunt_rating_value": v.RatingAverage,
		"rating_count":           v.RatingCount,
	}))
}
