package property

import (
	"encoding/json"
	"strings"

	"github.com/evcraddock/realty/internal/apperr"
)

// imagePrefixes are the accepted data URL prefixes.
var imagePrefixes = []string{
	"data:image/png;base64,",
	"data:image/jpeg;base64,",
	"data:image/jpg;base64,",
	"data:image/gif;base64,",
	"data:image/webp;base64,",
}

// Input is a create or update request body. Nil fields were absent.
type Input struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price"`
	Address     *string         `json:"address"`
	City        *string         `json:"city"`
	State       *string         `json:"state"`
	ZipCode     *string         `json:"zip_code"`
	Type        *string         `json:"type"`
	Latitude    *float64        `json:"latitude"`
	Longitude   *float64        `json:"longitude"`
	Beds        *int            `json:"beds"`
	Baths       *float64        `json:"baths"`
	Sqft        *int            `json:"sqft"`
	Images      json.RawMessage `json:"images"`
}

// Validate checks every field and returns nil or a ValidationFailed error.
// Missing fields are reported together in field order; only when all are
// present are the images checked, as a single error.
func (in Input) Validate() *apperr.Error {
	var errs []string

	requireText := func(v *string, label string) {
		if v == nil || strings.TrimSpace(*v) == "" {
			errs = append(errs, label+" is required")
		}
	}
	requirePresent := func(present bool, label string) {
		if !present {
			errs = append(errs, label+" is required")
		}
	}

	requireText(in.Title, "Title")
	requireText(in.Description, "Description")
	requirePresent(in.Price != nil, "Price")
	requireText(in.Address, "Address")
	requireText(in.City, "City")
	requireText(in.State, "State")
	requireText(in.ZipCode, "Zip code")
	requireText(in.Type, "Type")
	requirePresent(in.Latitude != nil, "Latitude")
	requirePresent(in.Longitude != nil, "Longitude")
	requirePresent(in.Beds != nil, "Beds")
	requirePresent(in.Baths != nil, "Baths")
	requirePresent(in.Sqft != nil, "Sqft")

	if len(errs) > 0 {
		return apperr.Validation(errs)
	}

	if _, ok := parseImages(in.Images); !ok {
		return apperr.New(apperr.ValidationFailed, "At least one image is required and every image must be a valid image data URL")
	}

	return nil
}

// parseImages accepts a non-empty JSON array whose elements are all
// strings carrying a recognized image data URL prefix.
func parseImages(raw json.RawMessage) (Images, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}

	images := make(Images, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || !ValidImage(s) {
			return nil, false
		}
		images = append(images, s)
	}
	return images, true
}

// ValidImage reports whether s starts with an accepted image data URL prefix.
func ValidImage(s string) bool {
	for _, prefix := range imagePrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// Property builds the listing described by a validated Input.
func (in Input) Property(ownerID int64) *Property {
	images, _ := parseImages(in.Images)
	return &Property{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(*in.Title),
		Description: strings.TrimSpace(*in.Description),
		Price:       *in.Price,
		Address:     strings.TrimSpace(*in.Address),
		City:        strings.TrimSpace(*in.City),
		State:       strings.TrimSpace(*in.State),
		ZipCode:     strings.TrimSpace(*in.ZipCode),
		Type:        strings.TrimSpace(*in.Type),
		Latitude:    *in.Latitude,
		Longitude:   *in.Longitude,
		Beds:        *in.Beds,
		Baths:       *in.Baths,
		Sqft:        *in.Sqft,
		Images:      images,
	}
}
