package pagbank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCPF(t *testing.T) {
	assert.NoError(t, ValidateCPF("529.982.247-25"))
	assert.NoError(t, ValidateCPF("52998224725"))

	assert.Error(t, ValidateCPF("52998224724"), "wrong check digit")
	assert.Error(t, ValidateCPF("11111111111"), "repeated digits")
	assert.Error(t, ValidateCPF("123456789"), "too short")
	assert.Error(t, ValidateCPF(""), "empty")
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("(11) 99999-8888"))
	assert.NoError(t, ValidatePhone("11999998888"))
	assert.NoError(t, ValidatePhone("1133334444"), "8-digit landline")
	assert.NoError(t, ValidatePhone("+55 11 99999-8888"), "with country code")

	assert.Error(t, ValidatePhone("0999998888"), "DDD below 11")
	assert.Error(t, ValidatePhone("119999"), "too short")
	assert.Error(t, ValidatePhone(""), "empty")
}

func TestParsePhone(t *testing.T) {
	p := ParsePhone("+55 (11) 99999-8888")
	assert.Equal(t, "55", p.Country)
	assert.Equal(t, "11", p.Area)
	assert.Equal(t, "999998888", p.Number)

	p = ParsePhone("2133334444")
	assert.Equal(t, "21", p.Area)
	assert.Equal(t, "33334444", p.Number)
}

func TestSanitizeDocument(t *testing.T) {
	assert.Equal(t, "52998224725", SanitizeDocument("529.982.247-25"))
}
