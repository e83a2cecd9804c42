package dto

import (
	"strconv"
)

type PlayRequest struct {
	ID string `json:"id"`
}

func (r PlayRequest) Validate() []ValidationError {
	return validateRequired("id", r.ID)
}

// SeekRequest carries the target position as a fraction of the duration.
// Out of range values are clamped by the player.
type SeekRequest struct {
	Fraction *float64 `json:"fraction"`
}

func (r SeekRequest) Validate() []ValidationError {
	return validateFraction("fraction", r.Fraction)
}

type CatalogRequest struct {
	URL string `json:"url"`
}

func (r CatalogRequest) Validate() []ValidationError {
	errs := validateRequired("url", r.URL)
	return append(errs, validateHTTPURL("url", r.URL)...)
}

// ParsePage reads a 1-based page number; empty means 1.
func ParsePage(raw string) (int, []ValidationError) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, []ValidationError{{Field: "page", Message: "must be a number"}}
	}
	return page, validatePage("page", page)
}

// ParseBool reads an optional boolean query flag.
func ParseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
