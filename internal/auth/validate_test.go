package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"ada@example.com", nil},
		{"  ada@example.com ", nil},
		{"", ErrEmailRequired},
		{"ada@example", ErrEmailInvalid},
		{"ada example@x.com", ErrEmailInvalid},
		{"@example.com", ErrEmailInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.in))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("", LoginPasswordMin), ErrPasswordRequired)
	assert.Error(t, ValidatePassword("abc12", LoginPasswordMin))
	assert.NoError(t, ValidatePassword("abc123", LoginPasswordMin))
	assert.Error(t, ValidatePassword("abc123", NewPasswordMin))

	assert.ErrorIs(t, ValidateNewPassword("abcdefgh", "abcdefgx"), ErrPasswordMismatch)
	assert.NoError(t, ValidateNewPassword("abcdefgh", "abcdefgh"))
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		pw    string
		score int
		label string
	}{
		{"", 0, "Too weak"},
		{"abc", 0, "Too weak"},
		{"abcdefgh", 1, "Too weak"},
		{"Abcdefgh", 2, "Fair"},
		{"Abcdefg1", 3, "Good"},
		{"Abcdef1!", 4, "Strong"},
		{"a1!", 2, "Fair"},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			got := PasswordStrength(tt.pw)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestNormalizeOTP(t *testing.T) {
	code, err := NormalizeOTP(" 123-456 ")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	_, err = NormalizeOTP("12345")
	assert.ErrorIs(t, err, ErrOTPInvalid)
	_, err = NormalizeOTP("12345a")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}
