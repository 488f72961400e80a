package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/platform/config"
	"github.com/SscSPs/balance_updater/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

const testSecret = "test-secret-that-is-long-enough-123456"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := utils.HashOperatorPassword("hunter2")
	require.NoError(t, err)
	return &config.Config{
		JWTSecret:            testSecret,
		JWTExpiryDuration:    time.Hour,
		JWTIssuer:            "balance-updater-test",
		OperatorUsername:     "operator",
		OperatorPasswordHash: hash,
		OperatorEmail:        "ops@example.com",
		GoogleClientID:       "client-id",
		GoogleClientSecret:   "client-secret",
	}
}

func TestOperatorLogin(t *testing.T) {
	svc := NewOperatorAuthService(testConfig(t))
	ctx := context.Background()

	token, expiresAt, err := svc.Login(ctx, "operator", "hunter2")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := utils.ParseAndValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)

	_, _, err = svc.Login(ctx, "operator", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "someone", "hunter2")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestOperatorLogin_DisabledWithoutHash(t *testing.T) {
	cfg := testConfig(t)
	cfg.OperatorPasswordHash = ""

	_, _, err := NewOperatorAuthService(cfg).Login(context.Background(), "operator", "")
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
}

func TestNewGoogleOAuthService_NilWhenUnconfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.GoogleClientID = ""
	assert.Nil(t, NewGoogleOAuthService(cfg))
}

func newStubbedGoogle(t *testing.T, claims map[string]any, exchangeErr error) *googleOAuthService {
	t.Helper()
	svc := NewGoogleOAuthService(testConfig(t)).(*googleOAuthService)
	svc.exchange = func(ctx context.Context, code string, _ ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
		if exchangeErr != nil {
			return nil, exchangeErr
		}
		tok := &oauth2.Token{AccessToken: "access"}
		return tok.WithExtra(map[string]any{"id_token": "id-token"}), nil
	}
	svc.validate = func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error) {
		if audience != "client-id" {
			return nil, errors.New("audience mismatch")
		}
		return &idtoken.Payload{Claims: claims}, nil
	}
	return svc
}

func TestGoogleExchangeCode(t *testing.T) {
	ctx := context.Background()

	t.Run("operator email gets a token", func(t *testing.T) {
		svc := newStubbedGoogle(t, map[string]any{"email": "Ops@Example.com", "email_verified": true}, nil)
		token, _, err := svc.ExchangeCode(ctx, "code")
		require.NoError(t, err)

		claims, err := utils.ParseAndValidateJWT(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", claims.Subject)
	})

	t.Run("other account is forbidden", func(t *testing.T) {
		svc := newStubbedGoogle(t, map[string]any{"email": "intruder@example.com", "email_verified": true}, nil)
		_, _, err := svc.ExchangeCode(ctx, "code")
		assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))
	})

	t.Run("unverified email is rejected", func(t *testing.T) {
		svc := newStubbedGoogle(t, map[string]any{"email": "ops@example.com", "email_verified": false}, nil)
		_, _, err := svc.ExchangeCode(ctx, "code")
		assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
	})

	t.Run("invalid grant is a bad request", func(t *testing.T) {
		svc := newStubbedGoogle(t, nil, errors.New("oauth2: \"invalid_grant\""))
		_, _, err := svc.ExchangeCode(ctx, "code")
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	})

	t.Run("upstream failure is a gateway timeout", func(t *testing.T) {
		svc := newStubbedGoogle(t, nil, errors.New("dial tcp: i/o timeout"))
		_, _, err := svc.ExchangeCode(ctx, "code")
		assert.Equal(t, http.StatusGatewayTimeout, apperrors.StatusCode(err))
	})
}
