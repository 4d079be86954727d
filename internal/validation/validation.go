package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateRequired checks that a field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength checks the minimum length of a string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return fmt.Errorf("%s must be at least %d characters long", fieldName, minLength)
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return fmt.Errorf("%s must be at most %d characters long", fieldName, maxLength)
	}
	return nil
}

// ValidateUUID checks that a string is a valid UUID
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return errors.New("email must have a valid format")
	}
	return nil
}

// ValidateSlug checks that a slug is lowercase alphanumeric with hyphens
func ValidateSlug(slug string) error {
	if err := ValidateRequired(slug, "slug"); err != nil {
		return err
	}
	if err := ValidateMaxLength(slug, 64, "slug"); err != nil {
		return err
	}
	if !slugPattern.MatchString(slug) {
		return errors.New("slug must contain only lowercase letters, numbers and hyphens")
	}
	return nil
}

// ValidateDateRange checks that an election date range is coherent
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return errors.New("end date must be after start date")
	}
	return nil
}

// ValidateVotingHours checks the daily voting window bounds
func ValidateVotingHours(startHour, endHour int) error {
	if startHour < 0 || startHour > 23 {
		return errors.New("voting start hour must be between 0 and 23")
	}
	if endHour < 1 || endHour > 24 {
		return errors.New("voting end hour must be between 1 and 24")
	}
	if endHour <= startHour {
		return errors.New("voting end hour must be after voting start hour")
	}
	return nil
}

// ElectionValidation groups election specific validations
type ElectionValidation struct{}

// ValidateElectionName validates an election name
func (v ElectionValidation) ValidateElectionName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 3, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 100, "name"); err != nil {
		return err
	}
	return nil
}

// ValidateElectionDescription validates an election description
func (v ElectionValidation) ValidateElectionDescription(description string) error {
	return ValidateMaxLength(description, 1000, "description")
}

// AccountValidation groups account specific validations
type AccountValidation struct{}

// ValidateAccountName validates an account holder name
func (v AccountValidation) ValidateAccountName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 2, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 50, "name"); err != nil {
		return err
	}
	return nil
}

// ValidateAccountEmail validates an account email
func (v AccountValidation) ValidateAccountEmail(email string) error {
	if err := ValidateRequired(email, "email"); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return nil
}

// ValidatePassword validates a plaintext password before hashing
func (v AccountValidation) ValidatePassword(password string) error {
	if err := ValidateMinLength(password, 8, "password"); err != nil {
		return err
	}
	// bcrypt truncates input beyond 72 bytes
	if len(password) > 72 {
		return errors.New("password must be at most 72 characters long")
	}
	return nil
}

// PartylistValidation groups partylist specific validations
type PartylistValidation struct{}

// ValidateAcronym validates a partylist acronym
func (v PartylistValidation) ValidateAcronym(acronym string) error {
	if err := ValidateRequired(acronym, "acronym"); err != nil {
		return err
	}
	if err := ValidateMaxLength(acronym, 24, "acronym"); err != nil {
		return err
	}
	return nil
}
