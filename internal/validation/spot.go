// Package validation validates spot payloads. Create and update share one
// validator: callers either get a clean payload back or a field→message map
// to return as a 400.
package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// SpotPayload is the client-supplied body for create and update. Pointer
// fields distinguish absent from zero values: lat 0 and price 0 are real
// inputs, not missing ones.
type SpotPayload struct {
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Country     *string  `json:"country"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

// Spot holds a payload that passed validation, dereferenced.
type Spot struct {
	Address     string  `validate:"min=1"`
	City        string  `validate:"min=1"`
	State       string  `validate:"min=1"`
	Country     string  `validate:"min=1"`
	Lat         float64 `validate:"gte=-90,lte=90"`
	Lng         float64 `validate:"gte=-180,lte=180"`
	Name        string  `validate:"min=1,max=49"`
	Description string  `validate:"min=1"`
	Price       float64 `validate:"gt=0"`
}

// messages maps a payload field to its client-facing error, matching the
// wire contract exactly.
var messages = map[string]string{
	"address":     "Street address is required",
	"city":        "City is required",
	"state":       "State is required",
	"country":     "Country is required",
	"lat":         "Latitude must be within -90 and 90",
	"lng":         "Longitude must be within -180 and 180",
	"name":        "Name is required",
	"nameLength":  "Name must be less than 50 characters",
	"description": "Description is required",
	"price":       "Price per day must be a positive number",
}

var validate = validator.New()

// ValidateSpot checks presence of all nine fields, the name length limit and
// the numeric ranges. An empty map means the payload is valid and the
// returned Spot is safe to persist.
func ValidateSpot(payload SpotPayload) (*Spot, map[string]string) {
	errs := map[string]string{}

	// Presence first. Missing fields short-circuit the range rules the same
	// way an absent field cannot have a range problem.
	presence := []struct {
		field   string
		present bool
	}{
		{"address", payload.Address != nil},
		{"city", payload.City != nil},
		{"state", payload.State != nil},
		{"country", payload.Country != nil},
		{"lat", payload.Lat != nil},
		{"lng", payload.Lng != nil},
		{"name", payload.Name != nil},
		{"description", payload.Description != nil},
		{"price", payload.Price != nil},
	}
	missing := false
	for _, p := range presence {
		if !p.present {
			errs[p.field] = messages[p.field]
			missing = true
		}
	}
	// The name length rule fires even while other fields are missing.
	if payload.Name != nil && utf8.RuneCountInString(*payload.Name) >= 50 {
		errs["name"] = messages["nameLength"]
	}
	if missing {
		return nil, errs
	}

	spot := Spot{
		Address:     strings.TrimSpace(*payload.Address),
		City:        strings.TrimSpace(*payload.City),
		State:       strings.TrimSpace(*payload.State),
		Country:     strings.TrimSpace(*payload.Country),
		Lat:         *payload.Lat,
		Lng:         *payload.Lng,
		Name:        *payload.Name,
		Description: *payload.Description,
		Price:       *payload.Price,
	}

	if err := validate.Struct(spot); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			// Struct-level failures never happen for this shape; surface as a
			// generic name error rather than panic.
			errs["name"] = messages["name"]
			return nil, errs
		}
		for _, fe := range fieldErrs {
			field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
			switch {
			case field == "name" && fe.Tag() == "max":
				// The length message overwrites any other name error.
				errs["name"] = messages["nameLength"]
			case errs[field] == "":
				errs[field] = messages[field]
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &spot, nil
}
