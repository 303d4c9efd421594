package event

import (
	"regexp"
	"time"

	apperrors "github.com/danevents/api/internal/errors"
)

var httpsURLPattern = regexp.MustCompile(`(?i)^https://.+`)

// validateNew validates a fully populated event before creation
func validateNew(e *Event) error {
	if err := validateName(e.Name); err != nil {
		return err
	}
	if err := validateDescription(e.Description); err != nil {
		return err
	}
	if err := validatePrice(e.Price); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return apperrors.NewValidationError("date", "date is required")
	}
	if e.Category == "" {
		return apperrors.NewValidationError("category", "category is required")
	}
	if e.ImageURL != "" {
		if err := validateImageURL(e.ImageURL); err != nil {
			return err
		}
	}
	return nil
}

// validateUpdate validates each provided allow-listed field
// independently
func validateUpdate(req *UpdateRequest) error {
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return err
		}
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return err
		}
	}
	if req.Category != nil && *req.Category == "" {
		return apperrors.NewValidationError("category", "category must not be empty")
	}
	if req.Date != nil && req.Date.IsZero() {
		return apperrors.NewValidationError("date", "invalid date")
	}
	if req.ImageURL != nil {
		if err := validateImageURL(*req.ImageURL); err != nil {
			return err
		}
	}
	return nil
}

func validateName(name string) error {
	if len(name) < 3 || len(name) > 100 {
		return apperrors.NewValidationError("name", "name must be between 3 and 100 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) < 10 || len(description) > 500 {
		return apperrors.NewValidationError("description", "description must be between 10 and 500 characters")
	}
	return nil
}

func validatePrice(price float64) error {
	if price < 0 {
		return apperrors.NewValidationError("price", "price must not be negative")
	}
	return nil
}

func validateImageURL(url string) error {
	if !httpsURLPattern.MatchString(url) {
		return apperrors.NewValidationError("imageUrl", "invalid URL format")
	}
	return nil
}

// parseDate accepts the date formats the API allows on input
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
