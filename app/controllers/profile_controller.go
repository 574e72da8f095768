package controllers

import (
	"github.com/shashiranjanraj/canteen/app/resources"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/ctx"
)

type ProfileController struct {
	profiles *services.ProfileService
}

func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

func (h *ProfileController) Create(c *ctx.Context) {
	var in services.ProfileInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.profiles.Create(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.Profile(*p))
}

func (h *ProfileController) Show(c *ctx.Context) {
	p, err := h.profiles.Get(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Profile(*p))
}

func (h *ProfileController) Update(c *ctx.Context) {
	var in services.ProfileUpdate
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.profiles.Update(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Profile(*p))
}

func (h *ProfileController) ShowSeller(c *ctx.Context) {
	sp, err := h.profiles.Seller(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.SellerProfile(*sp))
}

func (h *ProfileController) UpdateSeller(c *ctx.Context) {
	var in services.SellerProfileUpdate
	if !c.BindJSON(&in) {
		return
	}
	sp, err := h.profiles.UpdateSeller(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.SellerProfile(*sp))
}
