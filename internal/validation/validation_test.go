package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateSlug(t *testing.T) {
	valid := []string{"student-council-2026", "cs-week", "a", "x1"}
	for _, slug := range valid {
		assert.NoError(t, ValidateSlug(slug), slug)
	}

	invalid := []string{"", "Student-Council", "double--hyphen", "-leading", "trailing-", "with space", "é-accent", strings.Repeat("a", 65)}
	for _, slug := range invalid {
		assert.Error(t, ValidateSlug(slug), slug)
	}
}

func TestValidateVotingHours(t *testing.T) {
	assert.NoError(t, ValidateVotingHours(7, 19))
	assert.NoError(t, ValidateVotingHours(0, 24))

	assert.Error(t, ValidateVotingHours(-1, 19))
	assert.Error(t, ValidateVotingHours(7, 25))
	assert.Error(t, ValidateVotingHours(7, 0))
	assert.Error(t, ValidateVotingHours(12, 12))
	assert.Error(t, ValidateVotingHours(19, 7))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("juan@example.com"))

	invalid := []string{"", "no-at-sign", "@example.com", "juan@", "juan@nodot"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidateDateRange(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateDateRange(start, start.AddDate(0, 0, 2)))
	assert.NoError(t, ValidateDateRange(start, start), "single day elections are allowed")
	assert.Error(t, ValidateDateRange(start, start.AddDate(0, 0, -1)))
}

func TestValidatePassword(t *testing.T) {
	v := AccountValidation{}

	assert.NoError(t, v.ValidatePassword("longenough"))
	assert.Error(t, v.ValidatePassword("short"))
	assert.Error(t, v.ValidatePassword(strings.Repeat("a", 73)))
}
