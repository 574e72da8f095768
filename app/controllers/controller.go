// Package controllers adapts HTTP requests to the services and renders their
// results through app/resources.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/ctx"
)

// fail maps a service error onto the response status.
func fail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrNoVenue),
		errors.Is(err, services.ErrNoProfile):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrCrossVenueConflict),
		errors.Is(err, services.ErrProfileExists),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrVenueExists):
		c.Error(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrEmptyBasket):
		c.Error(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAuthorizationDenied):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrItemUnavailable),
		errors.Is(err, services.ErrInvalidRating):
		c.Error(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Error(http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
	default:
		c.InternalError(err)
	}
}

// pathID reads the {id} path parameter, answering 404 when it is not a valid id.
func pathID(c *ctx.Context) (uint, bool) {
	n, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
	}
	return n, ok
}

func viewer(c *ctx.Context) services.Viewer {
	return services.Viewer{UserID: c.UserID(), Role: c.Role()}
}
