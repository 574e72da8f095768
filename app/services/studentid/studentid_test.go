package studentid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/canteen/app/services/studentid"
)

func TestSliceDeriver(t *testing.T) {
	cases := []struct {
		email, program string
		want           string
		err            error
	}{
		{"f20190123@pilani.bits-pilani.ac.in", "A7", "2019A7PS0123P", nil},
		{"h20211050@campus.edu", "B3", "2021B3PS1050P", nil},
		{"short@campus.edu", "A7", "", studentid.ErrUnderivable},
		{"ab@pilani.bits-pilani.ac.in", "A7", "", studentid.ErrUnderivable},
		{"", "A7", "", studentid.ErrUnderivable},
	}
	for _, c := range cases {
		got, err := studentid.SliceDeriver{}.Derive(c.email, c.program)
		assert.ErrorIs(t, err, c.err, c.email)
		assert.Equal(t, c.want, got, c.email)
	}
}

func TestFuncAdapter(t *testing.T) {
	d := studentid.Func(func(email, program string) (string, error) { return program + ":" + email, nil })
	got, err := d.Derive("a@b.c", "AA")
	assert.NoError(t, err)
	assert.Equal(t, "AA:a@b.c", got)
}
