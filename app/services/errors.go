package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/canteen/pkg/orm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrCrossVenueConflict  = errors.New("basket holds items from another restaurant")
	ErrEmptyBasket         = errors.New("basket is empty")
	ErrAuthorizationDenied = errors.New("not allowed")

	ErrItemUnavailable    = errors.New("item is not available")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrProfileExists      = errors.New("profile already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrVenueExists        = errors.New("seller already has a restaurant")
	ErrNoVenue            = errors.New("seller has no restaurant")
	ErrNoProfile          = errors.New("create a profile first")
)

// missing turns a not-found lookup into ErrNotFound naming what was
// missing. Other errors pass through.
func missing(err error, what string) error {
	if orm.IsNotFound(err) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}
