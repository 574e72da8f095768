package controllers

import (
	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/resources"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/ctx"
)

type addItemRequest struct {
	ItemID uint `json:"item_id" validate:"required"`
}

type removeLineRequest struct {
	LineID uint `json:"basket_item_id" validate:"required"`
}

// BasketController serves the signed-in student's basket. Every endpoint
// resolves the caller's profile first.
type BasketController struct {
	baskets  *services.BasketService
	profiles *services.ProfileService
}

func NewBasketController(baskets *services.BasketService, profiles *services.ProfileService) *BasketController {
	return &BasketController{baskets: baskets, profiles: profiles}
}

func (h *BasketController) profile(c *ctx.Context) (*models.Profile, bool) {
	p, err := h.profiles.Get(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return p, true
}

// Current: GET /api/basket/current
func (h *BasketController) Current(c *ctx.Context) {
	p, ok := h.profile(c)
	if !ok {
		return
	}
	b, err := h.baskets.Current(c.Context(), p.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if b == nil {
		c.Success(map[string]any{"message": "Basket is empty", "basket": nil})
		return
	}
	c.Success(map[string]any{"message": "Basket", "basket": resources.Basket(*b)})
}

// AddItem: POST /api/basket/add_item {"item_id": 3}
func (h *BasketController) AddItem(c *ctx.Context) {
	var req addItemRequest
	if !c.BindJSON(&req) {
		return
	}
	p, ok := h.profile(c)
	if !ok {
		return
	}
	b, err := h.baskets.AddItem(c.Context(), p.ID, req.ItemID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]any{"message": "Item added to basket", "basket": resources.Basket(*b)})
}

// RemoveItem: POST /api/basket/remove_item {"basket_item_id": 9}
func (h *BasketController) RemoveItem(c *ctx.Context) {
	var req removeLineRequest
	if !c.BindJSON(&req) {
		return
	}
	p, ok := h.profile(c)
	if !ok {
		return
	}
	b, err := h.baskets.RemoveLine(c.Context(), p.ID, req.LineID)
	if err != nil {
		fail(c, err)
		return
	}
	if b == nil {
		c.Success(map[string]any{"message": "Basket is empty", "basket": nil})
		return
	}
	c.Success(map[string]any{"message": "Item removed from basket", "basket": resources.Basket(*b)})
}

// Clear: POST /api/basket/clear
func (h *BasketController) Clear(c *ctx.Context) {
	p, ok := h.profile(c)
	if !ok {
		return
	}
	if err := h.baskets.Clear(c.Context(), p.ID); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

// PlaceOrder: POST /api/basket/place_order
func (h *BasketController) PlaceOrder(c *ctx.Context) {
	p, ok := h.profile(c)
	if !ok {
		return
	}
	o, err := h.baskets.Checkout(c.Context(), p.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(map[string]any{
		"message":  "Order placed",
		"order_id": o.ID,
		"order":    resources.Order(*o),
	})
}
