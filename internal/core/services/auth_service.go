package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	portssvc "github.com/SscSPs/balance_updater/internal/core/ports/services"
	"github.com/SscSPs/balance_updater/internal/platform/config"
	"github.com/SscSPs/balance_updater/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// tokenIssuer signs operator access tokens.
type tokenIssuer struct {
	secret string
	expiry time.Duration
	issuer string
}

func newTokenIssuer(cfg *config.Config) tokenIssuer {
	return tokenIssuer{secret: cfg.JWTSecret, expiry: cfg.JWTExpiryDuration, issuer: cfg.JWTIssuer}
}

func (t tokenIssuer) issue(subject string) (string, time.Time, error) {
	expiresAt := time.Now().Add(t.expiry)
	token, err := utils.GenerateJWT(subject, t.secret, t.expiry, t.issuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiresAt, nil
}

// operatorAuthService implements OperatorAuthSvc against the configured operator credentials.
type operatorAuthService struct {
	BaseService
	username     string
	passwordHash string
	tokens       tokenIssuer
}

// NewOperatorAuthService creates the password login service.
func NewOperatorAuthService(cfg *config.Config) portssvc.OperatorAuthSvc {
	return &operatorAuthService{
		username:     cfg.OperatorUsername,
		passwordHash: cfg.OperatorPasswordHash,
		tokens:       newTokenIssuer(cfg),
	}
}

func (s *operatorAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if s.passwordHash == "" {
		s.LogWarn(ctx, "Password login attempted but OPERATOR_PASSWORD_HASH is not set")
		return "", time.Time{}, apperrors.NewUnauthorizedError("Password login is disabled")
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := utils.OperatorPasswordMatches(password, s.passwordHash)
	if !userOK || !passOK {
		s.LogWarn(ctx, "Invalid operator credentials", slog.String("username", username))
		return "", time.Time{}, apperrors.NewUnauthorizedError("Invalid username or password")
	}

	return s.tokens.issue(s.username)
}

// idTokenValidator matches idtoken.Validate.
type idTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// codeExchanger matches (*oauth2.Config).Exchange.
type codeExchanger func(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)

// googleOAuthService implements GoogleOAuthSvc.
type googleOAuthService struct {
	BaseService
	clientID      string
	operatorEmail string
	exchange      codeExchanger
	validate      idTokenValidator
	tokens        tokenIssuer
}

// NewGoogleOAuthService returns nil when Google sign-in is not configured.
func NewGoogleOAuthService(cfg *config.Config) portssvc.GoogleOAuthSvc {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.OperatorEmail == "" {
		return nil
	}
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email"},
		Endpoint:     google.Endpoint,
	}
	return &googleOAuthService{
		clientID:      cfg.GoogleClientID,
		operatorEmail: cfg.OperatorEmail,
		exchange:      oauthCfg.Exchange,
		validate:      idtoken.Validate,
		tokens:        newTokenIssuer(cfg),
	}
}

func (s *googleOAuthService) ExchangeCode(ctx context.Context, code string) (string, time.Time, error) {
	oauth2Token, err := s.exchange(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Failed to exchange authorization code with Google")
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "invalid_grant") || strings.Contains(msg, "bad request") {
			return "", time.Time{}, apperrors.NewBadRequestError("Invalid or expired authorization code provided by Google.")
		}
		return "", time.Time{}, apperrors.NewGatewayTimeoutError("Failed to communicate with Google OAuth service.")
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		return "", time.Time{}, apperrors.NewInternalServerError("Failed to retrieve ID token from Google.")
	}

	payload, err := s.validate(ctx, idTokenString, s.clientID)
	if err != nil {
		s.LogWarn(ctx, "Google ID token validation failed", slog.String("error", err.Error()))
		return "", time.Time{}, apperrors.NewUnauthorizedError("Invalid Google ID token")
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return "", time.Time{}, apperrors.NewUnauthorizedError("Google account email is missing or unverified")
	}
	if !strings.EqualFold(email, s.operatorEmail) {
		s.LogWarn(ctx, "Google sign-in from non-operator account", slog.String("email", email))
		return "", time.Time{}, apperrors.NewAppError(http.StatusForbidden, "This Google account may not update balances", apperrors.ErrUnauthorized)
	}

	s.LogInfo(ctx, "Operator signed in with Google", slog.String("email", email))
	return s.tokens.issue(strings.ToLower(email))
}
