package validator

import (
	"math"
	"testing"

	"ulok_portal_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string   `form:"owner_name" validate:"required,notblank"`
	Lat      float64  `json:"latitude" validate:"finite"`
	Area     *float64 `form:"area" validate:"omitempty,gt=0"`
	Untagged string   `validate:"omitempty,max=3"`
}

func TestFieldErrorsListsEveryField(t *testing.T) {
	val := New()
	zero := 0.0
	err := val.Struct(sample{Name: "   ", Lat: math.Inf(1), Area: &zero, Untagged: "abcd"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.ElementsMatch(t, []apperr.FieldError{
		{Field: "owner_name", Reason: "must not be empty"},
		{Field: "latitude", Reason: "must be a finite number"},
		{Field: "area", Reason: "must be greater than 0"},
		{Field: "Untagged", Reason: "must be at most 3"},
	}, fields)
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}

func TestValidStructPasses(t *testing.T) {
	area := 12.5
	assert.NoError(t, New().Struct(sample{Name: "Budi", Lat: -6.2, Area: &area}))
}
