package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/maya-cli/internal/client/client"
	"github.com/dmitrijs2005/maya-cli/internal/client/models"
	"github.com/dmitrijs2005/maya-cli/internal/client/token"
	"github.com/dmitrijs2005/maya-cli/internal/common"
)

// getSimpleText, getPassword and getFields are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getFields = GetFields

// promptEmail asks for an email address, falling back to the address left
// over from an earlier step (pending signup, then current login).
func (a *App) promptEmail() (string, error) {
	def := a.pendingEmail
	if def == "" {
		def = a.userName
	}

	prompt := "Enter email"
	if def != "" {
		prompt = fmt.Sprintf("Enter email (default %s)", def)
	}

	email, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return "", err
	}
	if email == "" {
		email = def
	}
	if email == "" {
		return "", errors.New("email is required")
	}
	return email, nil
}

// Register starts a signup: checks that the address is free, submits the
// registration so the server emails an OTP, and leaves the email pending
// for the verify/complete steps.
//
// The password byte slice is wiped before returning. Any I/O or service
// error is returned after being reported to the user.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	// best-effort pre-check; the server enforces uniqueness either way
	if available, err := a.authService.EmailAvailable(ctx, email); err == nil && !available {
		printlnFn("This email is already registered.")
		return nil
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rec, err := a.authService.Register(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, client.ErrEmailTaken) {
			printlnFn("This email is already registered.")
		} else {
			printlnFn("Registration failed:", err)
		}
		return err
	}

	a.pendingEmail = email

	if msg, ok := rec["message"].(string); ok && msg != "" {
		printlnFn(msg)
	} else {
		printlnFn("A confirmation code was sent to " + email)
	}
	printlnFn("Run 'verify' to confirm the code, then 'complete' to finish signup.")
	return nil
}

// Verify prompts for the emailed one-time code and confirms it with the
// server.
func (a *App) Verify(ctx context.Context) error {
	email, err := a.promptEmail()
	if err != nil {
		return err
	}

	otp, err := getSimpleText(a.reader, "Enter the code from the email", os.Stdout)
	if err != nil {
		return err
	}

	rec, err := a.authService.VerifyOTP(ctx, email, otp)
	if err != nil {
		printlnFn("Verification failed:", err)
		return err
	}

	a.pendingEmail = email

	if verified, _ := rec["is_verified"].(bool); verified {
		printlnFn("Email verified. Run 'complete' to finish signup.")
	} else if msg, ok := rec["message"].(string); ok && msg != "" {
		printlnFn(msg)
	}
	return nil
}

// Complete finishes a verified signup: collects the password and optional
// profile fields, creates the account and stores the returned tokens, so a
// successful completion leaves the user logged in.
func (a *App) Complete(ctx context.Context) error {
	email, err := a.promptEmail()
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	username, err := getSimpleText(a.reader, "Enter username (optional)", os.Stdout)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Enter role (optional)", os.Stdout)
	if err != nil {
		return err
	}
	hobbies, err := getSimpleText(a.reader, "Enter hobbies, comma separated (optional)", os.Stdout)
	if err != nil {
		return err
	}

	req := client.CompleteRegistrationRequest{
		Email:    email,
		Password: string(password),
		Username: username,
		Role:     role,
		Hobbies:  splitList(hobbies),
	}

	rec, err := a.authService.CompleteRegistration(ctx, req)
	if err != nil {
		printlnFn("Signup failed:", err)
		return err
	}

	if err := a.finishLogin(ctx, email, rec); err != nil {
		return err
	}
	a.pendingEmail = ""
	printlnFn("Account created. You are now logged in.")
	return nil
}

// Login prompts the user for credentials, authenticates against the server
// and stores the returned tokens locally.
//
// The password is wiped before returning. Service errors are reported to
// the user and returned; inspect App.Mode for the connectivity state.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rec, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			printlnFn("Invalid credentials.")
		case errors.Is(err, client.ErrUnavailable):
			printlnFn("Server unavailable, try again later.")
			a.setMode(ModeOffline)
		default:
			printlnFn("Login failed:", err)
		}
		return err
	}

	if err := a.finishLogin(ctx, email, rec); err != nil {
		return err
	}
	printlnFn("Logged in as " + a.userName)
	return nil
}

// finishLogin stores the token-bearing record and refreshes the prompt
// identity from the token claims, falling back to the entered email when
// the token carries none.
func (a *App) finishLogin(ctx context.Context, email string, rec models.Record) error {
	if err := a.authService.StoreTokens(ctx, rec); err != nil {
		printlnFn("Failed to store the session:", err)
		return err
	}

	a.userName = email
	if claims, err := token.Decode(rec.AccessToken()); err == nil && claims.Email() != "" {
		a.userName = claims.Email()
	}
	a.setMode(ModeOnline)
	return nil
}

// Logout removes the stored user record and forgets the prompt identity.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	a.userName = ""
	printlnFn("Logged out.")
	return nil
}

// Passwd resets the account password through the OTP flow: request a code,
// confirm it, then set the new password.
func (a *App) Passwd(ctx context.Context) error {
	email, err := a.promptEmail()
	if err != nil {
		return err
	}

	if _, err := a.authService.SendOTP(ctx, email); err != nil {
		printlnFn("Could not send the code:", err)
		return err
	}
	printlnFn("A code was sent to " + email)

	otp, err := getSimpleText(a.reader, "Enter the code from the email", os.Stdout)
	if err != nil {
		return err
	}
	if _, err := a.authService.VerifyOTP(ctx, email, otp); err != nil {
		printlnFn("Verification failed:", err)
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.UpdatePassword(ctx, email, string(password)); err != nil {
		printlnFn("Password update failed:", err)
		return err
	}
	printlnFn("Password updated.")
	return nil
}

// splitList turns a comma separated input line into a clean slice, dropping
// empty items. Returns nil for blank input.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
