package client

import (
	"context"
)

// Payload is a decoded JSON response body. The backend does not guarantee a
// stable shape for auth responses, so callers inspect the keys they need.
type Payload map[string]any

// CompleteRegistrationRequest finishes the OTP signup flow. Email and
// Password are required, the remaining fields are optional profile data.
type CompleteRegistrationRequest struct {
	Email    string   `json:"email"`
	OTP      string   `json:"otp,omitempty"`
	Password string   `json:"password"`
	Username string   `json:"username,omitempty"`
	Role     string   `json:"role,omitempty"`
	Hobbies  []string `json:"hobbies,omitempty"`
}

type Client interface {
	Close() error
	Register(ctx context.Context, email string, password string) (Payload, error)
	Login(ctx context.Context, email string, password string) (Payload, error)
	SendOTP(ctx context.Context, email string) (Payload, error)
	VerifyOTP(ctx context.Context, email string, otp string) (Payload, error)
	CompleteRegistration(ctx context.Context, req CompleteRegistrationRequest) (Payload, error)
	UpdatePassword(ctx context.Context, email string, password string) (Payload, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
	Me(ctx context.Context, accessToken string) (Payload, error)
	Ping(ctx context.Context) error
}
