package controllers

import (
	"github.com/shashiranjanraj/canteen/app/resources"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/ctx"
)

type AuthController struct {
	accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{accounts: accounts}
}

// Register: POST /api/auth/register
func (h *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	s, err := h.accounts.Register(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.Session(*s))
}

// Login: POST /api/auth/login
func (h *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	s, err := h.accounts.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Session(*s))
}

type logoutInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Logout: POST /api/auth/logout
func (h *AuthController) Logout(c *ctx.Context) {
	var in logoutInput
	if !c.BindJSON(&in) {
		return
	}
	if err := h.accounts.Logout(c.Context(), in.RefreshToken); err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Map{"message": "Logout successful"})
}

type refreshInput struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Refresh: POST /api/auth/token/refresh
func (h *AuthController) Refresh(c *ctx.Context) {
	var in refreshInput
	if !c.BindJSON(&in) {
		return
	}
	access, err := h.accounts.Refresh(c.Context(), in.Refresh)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Map{"access": access})
}

// Me: GET /api/auth/user
func (h *AuthController) Me(c *ctx.Context) {
	me, err := h.accounts.Me(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Me(*me))
}
