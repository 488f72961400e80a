package services

import (
	"context"
	"time"
)

// OperatorAuthSvc authenticates the single operator allowed to submit balances.
type OperatorAuthSvc interface {
	// Login checks username/password and returns a signed access token.
	Login(ctx context.Context, username, password string) (token string, expiresAt time.Time, err error)
}

// GoogleOAuthSvc exchanges a Google authorization code for an access token
// when the Google account belongs to the configured operator.
type GoogleOAuthSvc interface {
	ExchangeCode(ctx context.Context, code string) (token string, expiresAt time.Time, err error)
}
