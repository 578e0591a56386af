// Package validation holds the pure payload checks run before any store access.
package validation

import (
	"errors"
	"regexp"

	"kes-exchange-go/internal/models"
)

var (
	ErrEmptyFields        = errors.New("all fields are required")
	ErrInvalidEmail       = errors.New("email address is not of the correct format")
	ErrInvalidPhoneNumber = errors.New("phone number is not of the correct format")
	ErrInvalidRating      = errors.New("rating is out of range")
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsPhoneNumber reports whether s is exactly ten ASCII digits.
func IsPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

func RequiredFields(values ...string) error {
	for _, v := range values {
		if v == "" {
			return ErrEmptyFields
		}
	}
	return nil
}

// ValidateUserPayload checks required fields, then email format, then phone
// format, and returns the first violation.
func ValidateUserPayload(p models.UserPayload) error {
	if err := RequiredFields(p.Name, p.PhoneNumber, p.Email); err != nil {
		return err
	}
	if !IsEmail(p.Email) {
		return ErrInvalidEmail
	}
	if !IsPhoneNumber(p.PhoneNumber) {
		return ErrInvalidPhoneNumber
	}
	return nil
}

func ValidateListingPayload(p models.ListingPayload) error {
	return RequiredFields(p.Title, p.Author, p.Description)
}

func ValidateRating(rating uint8) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
