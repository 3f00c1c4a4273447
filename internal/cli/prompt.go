package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/auth"
)

// prompter collects interactive input for the account commands.
type prompter interface {
	Login(email, password *string) error
	Signup(req *api.SignupRequest, confirm *string) error
	Email(title string, email *string) error
	OTP(email string, code *string) error
	NewPassword(password, confirm *string) error
	Confirm(title string) (bool, error)
}

// huhPrompter asks on the terminal with huh forms.
type huhPrompter struct{}

func (huhPrompter) Login(email, password *string) error {
	return run(huh.NewForm(
		huh.NewGroup(
			emailInput("Email", email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(func(s string) error {
					return auth.ValidatePassword(s, auth.LoginPasswordMin)
				}),
		),
	))
}

func (huhPrompter) Signup(req *api.SignupRequest, confirm *string) error {
	return run(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(&req.FirstName).Validate(required("First name")),
			huh.NewInput().Title("Last name").Value(&req.LastName).Validate(required("Last name")),
			emailInput("Email", &req.Email),
		),
		huh.NewGroup(newPasswordInputs(&req.Password, confirm)...),
	))
}

func (huhPrompter) Email(title string, email *string) error {
	return run(huh.NewForm(huh.NewGroup(emailInput(title, email))))
}

func (huhPrompter) OTP(email string, code *string) error {
	return run(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Verification code").
				Description("Sent to " + email).
				Placeholder("123456").
				CharLimit(9).
				Value(code).
				Validate(func(s string) error {
					_, err := auth.NormalizeOTP(s)
					return err
				}),
		),
	))
}

func (huhPrompter) NewPassword(password, confirm *string) error {
	return run(huh.NewForm(huh.NewGroup(newPasswordInputs(password, confirm)...)))
}

func (huhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	err := run(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok),
		),
	))
	return ok, err
}

// errAborted is returned when the user backs out of a prompt.
var errAborted = errors.New("cancelled")

func run(f *huh.Form) error {
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errAborted
		}
		return err
	}
	return nil
}

func emailInput(title string, email *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("you@example.com").
		Value(email).
		Validate(auth.ValidateEmail)
}

// newPasswordInputs asks for a new password, showing its strength as it
// is typed, and its confirmation.
func newPasswordInputs(password, confirm *string) []huh.Field {
	return []huh.Field{
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			DescriptionFunc(func() string {
				if *password == "" {
					return "At least 8 characters"
				}
				return "Strength: " + auth.PasswordStrength(*password).Label
			}, password).
			Value(password).
			Validate(func(s string) error {
				return auth.ValidatePassword(s, auth.NewPasswordMin)
			}),
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(confirm).
			Validate(func(s string) error {
				return auth.ValidateNewPassword(*password, s)
			}),
	}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}
