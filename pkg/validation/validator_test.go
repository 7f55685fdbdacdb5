package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMobile(t *testing.T) {
	valid := []string{"9876543210", "0000000000"}
	for _, m := range valid {
		assert.True(t, ValidateMobile(m), m)
	}

	invalid := []string{"", "12345", "12345678901", "987654321a", "98765 4321", "+919876543210"}
	for _, m := range invalid {
		assert.False(t, ValidateMobile(m), m)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name@example.com", "x+tag@sub.domain.org"}
	for _, e := range valid {
		assert.True(t, ValidateEmail(e), e)
	}

	invalid := []string{"", "plain", "a@b", "@b.co", "a b@c.de", "a@b c.de"}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), e)
	}
}
