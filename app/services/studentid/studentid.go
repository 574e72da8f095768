// Package studentid derives the campus student id printed on a profile.
package studentid

import (
	"errors"
	"strings"
)

var ErrUnderivable = errors.New("studentid: address too short to derive an id")

// Deriver builds an external id from an email address and a program code.
type Deriver interface {
	Derive(email, program string) (string, error)
}

// SliceDeriver applies the campus rule to the local part of the address:
// local[1:5] + program + "PS" + local[5:9] + "P". It needs at least nine
// characters before the '@'.
//
// The legacy app sliced the whole address and never failed, so a short
// address could pull domain characters into the id. This rule deliberately
// returns ErrUnderivable instead, and the profile keeps an empty id.
type SliceDeriver struct{}

func (SliceDeriver) Derive(email, program string) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	if len(local) < 9 {
		return "", ErrUnderivable
	}
	return local[1:5] + program + "PS" + local[5:9] + "P", nil
}

// Func adapts a plain function to Deriver.
type Func func(email, program string) (string, error)

func (f Func) Derive(email, program string) (string, error) { return f(email, program) }
