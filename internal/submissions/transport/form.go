package transport

import (
	"strconv"
	"strings"

	"ulok_portal_backend/internal/submissions/domain"
	"ulok_portal_backend/platform/apperr"
)

// PhotoField is the multipart field holding the submission photo.
const PhotoField = "photo"

// DecodeFields reads submission fields from multipart form values. Keys that
// are absent stay nil; values that cannot be parsed are recorded in
// Fields.Malformed instead of failing fast.
func DecodeFields(form map[string][]string) domain.Fields {
	d := decoder{form: form}
	f := domain.Fields{
		Province:      d.str("province"),
		Regency:       d.str("regency"),
		District:      d.str("district"),
		Village:       d.str("village"),
		Address:       d.str("address"),
		Latitude:      d.number("latitude"),
		Longitude:     d.number("longitude"),
		ObjectType:    d.str("object_type"),
		LandTitle:     d.str("land_title"),
		FloorCount:    d.integer("floor_count"),
		FrontageWidth: d.number("frontage_width"),
		Depth:         d.number("depth"),
		Area:          d.number("area"),
		RentPrice:     d.number("rent_price"),
		OwnerName:     d.str("owner_name"),
		OwnerPhone:    d.str("owner_phone"),
	}
	f.Malformed = d.errs
	return f
}

type decoder struct {
	form map[string][]string
	errs []apperr.FieldError
}

func (d *decoder) value(key string) (string, bool) {
	values, ok := d.form[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (d *decoder) str(key string) *string {
	v, ok := d.value(key)
	if !ok {
		return nil
	}
	return &v
}

func (d *decoder) number(key string) *float64 {
	v, ok := d.value(key)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		d.errs = append(d.errs, apperr.FieldError{Field: key, Reason: "must not be empty"})
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		d.errs = append(d.errs, apperr.FieldError{Field: key, Reason: "must be a number"})
		return nil
	}
	return &f
}

func (d *decoder) integer(key string) *int {
	v, ok := d.value(key)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		d.errs = append(d.errs, apperr.FieldError{Field: key, Reason: "must not be empty"})
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		d.errs = append(d.errs, apperr.FieldError{Field: key, Reason: "must be an integer"})
		return nil
	}
	return &i
}
