package dto

import (
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func validateRequired(field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return []ValidationError{{Field: field, Message: "is required"}}
	}
	return nil
}

func validateHTTPURL(field, value string) []ValidationError {
	if value == "" {
		return nil
	}
	u, err := url.ParseRequestURI(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []ValidationError{{Field: field, Message: "invalid URL format"}}
	}
	return nil
}

func validateFraction(field string, value *float64) []ValidationError {
	if value == nil {
		return []ValidationError{{Field: field, Message: "is required"}}
	}
	if *value != *value {
		return []ValidationError{{Field: field, Message: "must be a number"}}
	}
	return nil
}

func validatePage(field string, page int) []ValidationError {
	if page < 1 || page > 1000 {
		return []ValidationError{{Field: field, Message: "must be between 1 and 1000"}}
	}
	return nil
}
