// Package services contains application services for the Maya client.
// This file defines the authentication service: server-side register/login,
// the OTP signup and password-recovery flows, and housekeeping of the
// locally stored user record.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/maya-cli/internal/client/client"
	"github.com/dmitrijs2005/maya-cli/internal/client/models"
	"github.com/dmitrijs2005/maya-cli/internal/client/repositories/session"
	"github.com/dmitrijs2005/maya-cli/internal/common"
	"github.com/dmitrijs2005/maya-cli/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register/Login: call the backend and return its response without
//     touching local storage; the caller decides what to keep via
//     StoreTokens.
//   - StoreTokens/CurrentUser/UpdateProfile/Logout: manage the single
//     locally stored user record.
//   - SendOTP/VerifyOTP/CompleteRegistration/UpdatePassword/EmailAvailable:
//     proxy the OTP signup and password-recovery flows.
//   - Me: fetch the account profile using the stored access token.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, email string, password string) (models.Record, error)
	Login(ctx context.Context, email string, password string) (models.Record, error)
	StoreTokens(ctx context.Context, tokens models.Record) error
	CurrentUser(ctx context.Context) (models.Record, error)
	UpdateProfile(ctx context.Context, fields models.Record) (models.Record, error)
	Logout(ctx context.Context) error
	SendOTP(ctx context.Context, email string) (models.Record, error)
	VerifyOTP(ctx context.Context, email string, otp string) (models.Record, error)
	CompleteRegistration(ctx context.Context, req client.CompleteRegistrationRequest) (models.Record, error)
	UpdatePassword(ctx context.Context, email string, password string) (models.Record, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
	Me(ctx context.Context) (models.Record, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client and a
// local session repository.
type authService struct {
	client   client.Client
	sessions session.Repository
	log      logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// session storage. A nil logger disables service logging.
func NewAuthService(client client.Client, sessions session.Repository, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNop()
	}
	return &authService{client: client, sessions: sessions, log: log}
}

// Register starts a signup on the server and returns the backend response.
// Nothing is persisted locally; client errors pass through unchanged so
// callers can match them against the client package sentinels.
func (a *authService) Register(ctx context.Context, email string, password string) (models.Record, error) {
	p, err := a.client.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return models.Record(p), nil
}

// Login authenticates against the server and returns the backend response,
// normally carrying access_token and token_type. Nothing is persisted
// locally; client errors pass through unchanged.
func (a *authService) Login(ctx context.Context, email string, password string) (models.Record, error) {
	p, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return models.Record(p), nil
}

// StoreTokens replaces the locally stored user record with tokens.
func (a *authService) StoreTokens(ctx context.Context, tokens models.Record) error {
	data, err := tokens.Encode()
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	if err := a.sessions.Set(ctx, common.SessionKey, data); err != nil {
		return fmt.Errorf("store user record: %w", err)
	}
	a.log.Debug(ctx, "stored user record", "fields", len(tokens))
	return nil
}

// CurrentUser returns the locally stored user record, or (nil, nil) when
// none is stored. A stored record that no longer parses is reported as an
// error so local corruption stays visible.
func (a *authService) CurrentUser(ctx context.Context) (models.Record, error) {
	data, err := a.sessions.Get(ctx, common.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("load user record: %w", err)
	}
	return models.DecodeRecord(data)
}

// UpdateProfile merges fields into the stored user record and writes the
// result back, creating the record when none exists. The merged record is
// returned. The read-modify-write is not locked: concurrent updates may
// interleave and the last writer wins.
func (a *authService) UpdateProfile(ctx context.Context, fields models.Record) (models.Record, error) {
	current, err := a.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	merged := current.Merge(fields)
	if err := a.StoreTokens(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Logout removes the locally stored user record. Removing an already absent
// record is not an error.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.sessions.Delete(ctx, common.SessionKey); err != nil {
		return fmt.Errorf("clear user record: %w", err)
	}
	a.log.Debug(ctx, "cleared user record")
	return nil
}

// SendOTP asks the server to email a one-time code to the address.
func (a *authService) SendOTP(ctx context.Context, email string) (models.Record, error) {
	p, err := a.client.SendOTP(ctx, email)
	if err != nil {
		return nil, err
	}
	return models.Record(p), nil
}

// VerifyOTP confirms a one-time code previously sent to the address.
func (a *authService) VerifyOTP(ctx context.Context, email string, otp string) (models.Record, error) {
	p, err := a.client.VerifyOTP(ctx, email, otp)
	if err != nil {
		return nil, err
	}
	return models.Record(p), nil
}

// CompleteRegistration finishes a verified signup and returns the backend
// response, normally carrying the first access token for the new account.
func (a *authService) CompleteRegistration(ctx context.Context, req client.CompleteRegistrationRequest) (models.Record, error) {
	p, err := a.client.CompleteRegistration(ctx, req)
	if err != nil {
		return nil, err
	}
	return models.Record(p), nil
}

// UpdatePassword sets a new password for an OTP-verified address.
func (a *authService) UpdatePassword(ctx context.Context, email string, password string) (models.Record, error) {
	p, err := a.client.UpdatePassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return models.Record(p), nil
}

// EmailAvailable reports whether the address is free to register.
func (a *authService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	return a.client.EmailAvailable(ctx, email)
}

// Me fetches the account profile from the server using the access token of
// the stored user record. Returns common.ErrNotLoggedIn when no token is
// stored.
func (a *authService) Me(ctx context.Context) (models.Record, error) {
	current, err := a.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	accessToken := current.AccessToken()
	if accessToken == "" {
		return nil, common.ErrNotLoggedIn
	}

	p, err := a.client.Me(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return models.Record(p), nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
