package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("jan@example.com"))
	assert.NoError(t, ValidateEmail("billing+hotel@sub.domain.nl"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidatePostalCode(t *testing.T) {
	assert.NoError(t, ValidatePostalCode("1234 AB"))
	assert.NoError(t, ValidatePostalCode("9999ZZ"))
	assert.NoError(t, ValidatePostalCode("1234 ab"))
	assert.Error(t, ValidatePostalCode("0123 AB"))
	assert.Error(t, ValidatePostalCode("12345"))
}

func TestValidateVATPercent(t *testing.T) {
	assert.NoError(t, ValidateVATPercent(0))
	assert.NoError(t, ValidateVATPercent(9))
	assert.NoError(t, ValidateVATPercent(21))
	assert.Error(t, ValidateVATPercent(-1))
	assert.Error(t, ValidateVATPercent(100))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Hotel Zeezicht", SanitizeString("Hotel\x00 Zeezicht\x1f"))
}
