package domain

import (
	"sort"
	"strings"

	"ulok_portal_backend/platform/apperr"
	"ulok_portal_backend/platform/phone"
	"ulok_portal_backend/platform/validator"
)

const msgValidationFailed = "validation failed"

// Fields is the owner-editable part of a submission. A nil pointer means the
// field was not supplied.
type Fields struct {
	Province      *string  `json:"province" validate:"omitnil,notblank"`
	Regency       *string  `json:"regency" validate:"omitnil,notblank"`
	District      *string  `json:"district" validate:"omitnil,notblank"`
	Village       *string  `json:"village" validate:"omitnil,notblank"`
	Address       *string  `json:"address" validate:"omitnil,notblank"`
	Latitude      *float64 `json:"latitude" validate:"omitnil,finite"`
	Longitude     *float64 `json:"longitude" validate:"omitnil,finite"`
	ObjectType    *string  `json:"object_type" validate:"omitnil,notblank"`
	LandTitle     *string  `json:"land_title" validate:"omitnil,notblank"`
	FloorCount    *int     `json:"floor_count" validate:"omitnil,min=0"`
	FrontageWidth *float64 `json:"frontage_width" validate:"omitnil,finite,gt=0"`
	Depth         *float64 `json:"depth" validate:"omitnil,finite,gt=0"`
	Area          *float64 `json:"area" validate:"omitnil,finite,gt=0"`
	RentPrice     *float64 `json:"rent_price" validate:"omitnil,finite,gte=0"`
	OwnerName     *string  `json:"owner_name" validate:"omitnil,notblank"`
	OwnerPhone    *string  `json:"owner_phone" validate:"omitnil,notblank"`

	// Malformed holds decode failures (e.g. "abc" for a number) so they are
	// reported together with rule violations.
	Malformed []apperr.FieldError `json:"-" validate:"-"`
}

// FieldOrder is the order violations are reported in.
var FieldOrder = []string{
	"province", "regency", "district", "village", "address",
	"latitude", "longitude",
	"object_type", "land_title", "floor_count",
	"frontage_width", "depth", "area", "rent_price",
	"owner_name", "owner_phone",
	"photo",
}

// missing lists the names of fields that were not supplied.
func (f Fields) missing() []string {
	supplied := map[string]bool{
		"province":       f.Province != nil,
		"regency":        f.Regency != nil,
		"district":       f.District != nil,
		"village":        f.Village != nil,
		"address":        f.Address != nil,
		"latitude":       f.Latitude != nil,
		"longitude":      f.Longitude != nil,
		"object_type":    f.ObjectType != nil,
		"land_title":     f.LandTitle != nil,
		"floor_count":    f.FloorCount != nil,
		"frontage_width": f.FrontageWidth != nil,
		"depth":          f.Depth != nil,
		"area":           f.Area != nil,
		"rent_price":     f.RentPrice != nil,
		"owner_name":     f.OwnerName != nil,
		"owner_phone":    f.OwnerPhone != nil,
	}
	var out []string
	for _, name := range FieldOrder {
		if present, known := supplied[name]; known && !present {
			out = append(out, name)
		}
	}
	return out
}

// Checker validates and normalizes submission fields.
type Checker struct {
	val         *validator.Validator
	phoneRegion string
}

// NewChecker creates a Checker. phoneRegion is the default region for owner
// phone numbers written in national format.
func NewChecker(val *validator.Validator, phoneRegion string) *Checker {
	return &Checker{val: val, phoneRegion: phoneRegion}
}

// ValidateCreate requires every field and applies the per-field rules.
// extra carries violations found outside Fields (the uploaded photo).
func (c *Checker) ValidateCreate(f Fields, extra ...apperr.FieldError) (Fields, error) {
	violations := append([]apperr.FieldError{}, f.Malformed...)
	violations = append(violations, extra...)
	for _, name := range f.missing() {
		if !hasField(violations, name) {
			violations = append(violations, apperr.FieldError{Field: name, Reason: "is required"})
		}
	}
	violations = append(violations, c.rules(f, nil)...)
	if len(violations) > 0 {
		return Fields{}, apperr.ValidationFields(msgValidationFailed, ordered(violations))
	}
	return c.normalize(f), nil
}

// ValidatePatch applies the per-field rules to supplied fields only. An
// object type equal to the record's existing value is accepted even when it
// is not one of the canonical labels.
func (c *Checker) ValidatePatch(f Fields, existing Submission, extra ...apperr.FieldError) (Fields, error) {
	violations := append([]apperr.FieldError{}, f.Malformed...)
	violations = append(violations, extra...)
	violations = append(violations, c.rules(f, &existing)...)
	if len(violations) > 0 {
		return Fields{}, apperr.ValidationFields(msgValidationFailed, ordered(violations))
	}
	out := c.normalize(f)
	if f.ObjectType != nil && *f.ObjectType == existing.ObjectType {
		if _, ok := NormalizeObjectType(existing.ObjectType); !ok {
			out.ObjectType = &existing.ObjectType
		}
	}
	return out, nil
}

func (c *Checker) rules(f Fields, existing *Submission) []apperr.FieldError {
	violations := validator.FieldErrors(c.val.Struct(f))
	if f.ObjectType != nil && strings.TrimSpace(*f.ObjectType) != "" && !hasField(violations, "object_type") {
		_, ok := NormalizeObjectType(*f.ObjectType)
		legacy := existing != nil && *f.ObjectType == existing.ObjectType
		if !ok && !legacy {
			violations = append(violations, apperr.FieldError{
				Field:  "object_type",
				Reason: "must be one of [" + ObjectTypeLand + " " + ObjectTypeBuilding + "]",
			})
		}
	}
	return violations
}

func (c *Checker) normalize(f Fields) Fields {
	out := Fields{
		Province:      trimmed(f.Province),
		Regency:       trimmed(f.Regency),
		District:      trimmed(f.District),
		Village:       trimmed(f.Village),
		Address:       trimmed(f.Address),
		Latitude:      f.Latitude,
		Longitude:     f.Longitude,
		LandTitle:     trimmed(f.LandTitle),
		FloorCount:    f.FloorCount,
		FrontageWidth: f.FrontageWidth,
		Depth:         f.Depth,
		Area:          f.Area,
		RentPrice:     f.RentPrice,
		OwnerName:     trimmed(f.OwnerName),
	}
	if f.ObjectType != nil {
		if canonical, ok := NormalizeObjectType(*f.ObjectType); ok {
			out.ObjectType = &canonical
		} else {
			out.ObjectType = trimmed(f.ObjectType)
		}
	}
	if f.OwnerPhone != nil {
		normalized := phone.NormalizeE164(*f.OwnerPhone, c.phoneRegion)
		out.OwnerPhone = &normalized
	}
	return out
}

// Apply copies every supplied field onto s.
func (f Fields) Apply(s *Submission) {
	setString(&s.Province, f.Province)
	setString(&s.Regency, f.Regency)
	setString(&s.District, f.District)
	setString(&s.Village, f.Village)
	setString(&s.Address, f.Address)
	setFloat(&s.Latitude, f.Latitude)
	setFloat(&s.Longitude, f.Longitude)
	setString(&s.ObjectType, f.ObjectType)
	setString(&s.LandTitle, f.LandTitle)
	if f.FloorCount != nil {
		s.FloorCount = *f.FloorCount
	}
	setFloat(&s.FrontageWidth, f.FrontageWidth)
	setFloat(&s.Depth, f.Depth)
	setFloat(&s.Area, f.Area)
	setFloat(&s.RentPrice, f.RentPrice)
	setString(&s.OwnerName, f.OwnerName)
	setString(&s.OwnerPhone, f.OwnerPhone)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func hasField(list []apperr.FieldError, name string) bool {
	for _, fe := range list {
		if fe.Field == name {
			return true
		}
	}
	return false
}

func ordered(list []apperr.FieldError) []apperr.FieldError {
	rank := make(map[string]int, len(FieldOrder))
	for i, name := range FieldOrder {
		rank[name] = i
	}
	position := func(name string) int {
		if r, ok := rank[name]; ok {
			return r
		}
		return len(FieldOrder)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return position(list[i].Field) < position(list[j].Field)
	})
	return list
}
