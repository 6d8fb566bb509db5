package transport

import (
	"testing"

	"ulok_portal_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFieldsParsesSuppliedValues(t *testing.T) {
	f := DecodeFields(map[string][]string{
		"province":    {"Bali"},
		"latitude":    {"-8,65"},
		"floor_count": {" 2 "},
		"rent_price":  {"0"},
	})

	require.NotNil(t, f.Province)
	assert.Equal(t, "Bali", *f.Province)
	assert.Equal(t, -8.65, *f.Latitude)
	assert.Equal(t, 2, *f.FloorCount)
	assert.Equal(t, 0.0, *f.RentPrice)
	assert.Nil(t, f.Area)
	assert.Empty(t, f.Malformed)
}

func TestDecodeFieldsCollectsMalformedValues(t *testing.T) {
	f := DecodeFields(map[string][]string{
		"latitude":    {"north"},
		"floor_count": {"2.5"},
		"area":        {""},
	})

	assert.ElementsMatch(t, []apperr.FieldError{
		{Field: "latitude", Reason: "must be a number"},
		{Field: "floor_count", Reason: "must be an integer"},
		{Field: "area", Reason: "must not be empty"},
	}, f.Malformed)
	assert.Nil(t, f.Latitude)
}
