// Package auth holds the input rules shared by the login, signup and
// password reset flows.
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	// LoginPasswordMin is the shortest password the login form accepts.
	LoginPasswordMin = 6
	// NewPasswordMin is the shortest password accepted for signup and reset.
	NewPasswordMin = 8
	// OTPLength is the number of digits in a one-time code.
	OTPLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("enter a valid email address")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrOTPInvalid       = errors.New("enter the 6-digit code")
)

// ValidateEmail checks that s looks like an email address.
func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(s) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidatePassword checks that pw is present and at least min characters.
func ValidatePassword(pw string, min int) error {
	if pw == "" {
		return ErrPasswordRequired
	}
	if len([]rune(pw)) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	return nil
}

// ValidateNewPassword applies the signup/reset rules to a password and its
// confirmation.
func ValidateNewPassword(pw, confirm string) error {
	if err := ValidatePassword(pw, NewPasswordMin); err != nil {
		return err
	}
	if pw != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// Strength is a password strength rating.
type Strength struct {
	Score int // 0..4
	Label string
}

var strengthLabels = []string{"Too weak", "Fair", "Good", "Strong"}

// PasswordStrength scores pw one point each for length >= 8, an uppercase
// letter, a digit and a symbol.
func PasswordStrength(pw string) Strength {
	score := 0
	if len([]rune(pw)) >= 8 {
		score++
	}
	var upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case !(r >= 'a' && r <= 'z'):
			symbol = true
		}
	}
	for _, ok := range []bool{upper, digit, symbol} {
		if ok {
			score++
		}
	}

	idx := score - 1
	if idx < 0 {
		idx = 0
	}
	return Strength{Score: score, Label: strengthLabels[idx]}
}

// NormalizeOTP strips spaces and dashes from a pasted code and checks that
// exactly six digits remain.
func NormalizeOTP(s string) (string, error) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	code := b.String()
	if len(code) != OTPLength {
		return "", ErrOTPInvalid
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", ErrOTPInvalid
		}
	}
	return code, nil
}
