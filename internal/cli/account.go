package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/auth"
)

// maxOTPAttempts bounds how often a code may be retried before giving up.
const maxOTPAttempts = 3

var errNotSignedIn = errors.New("not signed in; run `tasko login`")

func newLoginCmd(a *App) *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if passwordStdin {
				pw, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = pw
				if err := auth.ValidateEmail(email); err != nil {
					return err
				}
				if err := auth.ValidatePassword(password, auth.LoginPasswordMin); err != nil {
					return err
				}
			} else if err := a.prompt.Login(&email, &password); err != nil {
				return err
			}

			c, err := a.client(false)
			if err != nil {
				return err
			}
			u, err := c.Login(cmd.Context(), strings.TrimSpace(email), password)
			if err != nil {
				return describe(err, "login failed")
			}
			if err := a.sessions.Save(c.BaseURL(), c.Cookies()); err != nil {
				return fmt.Errorf("storing session: %w", err)
			}

			a.log.Infow("logged in", "user", u.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", displayName(u.FullName, u.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil && !api.IsAuthError(err) {
				a.log.Warnw("server logout failed", "error", err)
			}
			if err := a.sessions.Clear(c.BaseURL()); err != nil {
				return fmt.Errorf("forgetting session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			s, err := c.CurrentUser(cmd.Context())
			if api.IsAuthError(err) {
				return errNotSignedIn
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", displayName(s.User.FullName, s.User.Email), s.User.Email)
			return nil
		},
	}
}

func newSignupCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				req     api.SignupRequest
				confirm string
			)
			if err := a.prompt.Signup(&req, &confirm); err != nil {
				return err
			}
			req.Email = strings.TrimSpace(req.Email)
			req.FirstName = strings.TrimSpace(req.FirstName)
			req.LastName = strings.TrimSpace(req.LastName)

			c, err := a.client(false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			res, err := c.SendOTP(ctx, req)
			if err != nil {
				return describe(err, "could not start signup")
			}
			fmt.Fprintln(out, orDefault(res.Message, "Verification code sent to "+req.Email))

			err = a.verifyOTP(ctx, out, req.Email, c.VerifyOTP, c.ResendOTP)
			if err != nil {
				return err
			}

			res, err = c.CompleteSignup(ctx, api.CompleteSignupRequest{
				Email:           req.Email,
				FirstName:       req.FirstName,
				LastName:        req.LastName,
				Password:        req.Password,
				ConfirmPassword: confirm,
			})
			if err != nil {
				return describe(err, "could not create account")
			}

			a.log.Infow("account created", "email", req.Email)
			fmt.Fprintln(out, orDefault(res.Message, "Account created"))
			fmt.Fprintln(out, "Run `tasko login` to sign in.")
			return nil
		},
	}
}

func newResetPasswordCmd(a *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a forgotten password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				if err := a.prompt.Email("Account email", &email); err != nil {
					return err
				}
			}
			email = strings.TrimSpace(email)
			if err := auth.ValidateEmail(email); err != nil {
				return err
			}

			c, err := a.client(false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			res, err := c.ForgotPasswordSendOTP(ctx, email)
			if err != nil {
				return describe(err, "could not send reset code")
			}
			fmt.Fprintln(out, orDefault(res.Message, "Reset code sent to "+email))

			err = a.verifyOTP(ctx, out, email, c.ForgotPasswordVerifyOTP, c.ForgotPasswordResendOTP)
			if err != nil {
				return err
			}

			var password, confirm string
			if err := a.prompt.NewPassword(&password, &confirm); err != nil {
				return err
			}
			if err := auth.ValidateNewPassword(password, confirm); err != nil {
				return err
			}

			res, err = c.ResetPassword(ctx, email, password, confirm)
			if err != nil {
				return describe(err, "could not reset password")
			}

			a.log.Infow("password reset", "email", email)
			fmt.Fprintln(out, orDefault(res.Message, "Password reset"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	return cmd
}

type otpFunc func(ctx context.Context, email, otp string) (*api.AuthResult, error)
type resendFunc func(ctx context.Context, email string) (*api.AuthResult, error)

// verifyOTP asks for the emailed code until the server accepts it. After a
// rejected code the user may have a new one sent.
func (a *App) verifyOTP(ctx context.Context, out io.Writer, email string, verify otpFunc, resend resendFunc) error {
	for attempt := 1; ; attempt++ {
		var code string
		if err := a.prompt.OTP(email, &code); err != nil {
			return err
		}
		otp, err := auth.NormalizeOTP(code)
		if err != nil {
			return err
		}

		_, err = verify(ctx, email, otp)
		if err == nil {
			return nil
		}
		if attempt >= maxOTPAttempts {
			return describe(err, "verification failed")
		}
		fmt.Fprintln(out, describe(err, "verification failed"))

		again, err := a.prompt.Confirm("Send a new code?")
		if err != nil {
			return err
		}
		if again {
			if _, err := resend(ctx, email); err != nil {
				return describe(err, "could not resend code")
			}
			fmt.Fprintln(out, "A new code is on its way.")
		}
	}
}

// describe turns a server rejection into a one-line error.
func describe(err error, what string) error {
	if fe, ok := api.AsFieldErrors(err); ok {
		if s := fe.Summary(); s != "" {
			return fmt.Errorf("%s: %s", what, s)
		}
	}
	var ae *api.AuthError
	if errors.As(err, &ae) && ae.Message != "" {
		return fmt.Errorf("%s: %s", what, ae.Message)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func displayName(full, email string) string {
	if strings.TrimSpace(full) != "" {
		return full
	}
	return email
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
