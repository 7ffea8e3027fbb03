package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/utils"
	"github.com/MKhiriev/workshop-qa/models"
)

func newTestAuthConfig() config.App {
	return config.App{
		AccessCode:    "gopher",
		TokenSignKey:  "sign-key",
		TokenIssuer:   "workshop-qa",
		TokenDuration: time.Hour,
	}
}

func TestAuthService_Disabled(t *testing.T) {
	svc, err := NewAuthService(config.App{TokenSignKey: "k"}, logger.Nop())
	require.NoError(t, err)

	assert.False(t, svc.Enabled())

	_, err = svc.Login(context.Background(), models.SessionRequest{AccessCode: "anything"})
	assert.ErrorIs(t, err, ErrAuthDisabled)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, err := NewAuthService(newTestAuthConfig(), logger.Nop())
	require.NoError(t, err)
	require.True(t, svc.Enabled())

	token, err := svc.Login(context.Background(), models.SessionRequest{AccessCode: "gopher"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.SignedString)
	assert.NotEmpty(t, token.ClientID)

	parsed, err := svc.ParseToken(context.Background(), token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, token.ClientID, parsed.ClientID)
}

func TestAuthService_Login_EveryClientGetsOwnID(t *testing.T) {
	svc, err := NewAuthService(newTestAuthConfig(), logger.Nop())
	require.NoError(t, err)

	first, err := svc.Login(context.Background(), models.SessionRequest{AccessCode: "gopher"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), models.SessionRequest{AccessCode: "gopher"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ClientID, second.ClientID)
}

func TestAuthService_Login_PreHashedCode(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := newTestAuthConfig()
	cfg.AccessCode = ""
	cfg.AccessCodeHash = string(hash)

	svc, err := NewAuthService(cfg, logger.Nop())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.SessionRequest{AccessCode: "s3cret"})
	assert.NoError(t, err)
}

func TestAuthService_Login_Rejections(t *testing.T) {
	svc, err := NewAuthService(newTestAuthConfig(), logger.Nop())
	require.NoError(t, err)

	tests := []struct {
		name string
		code string
		want error
	}{
		{"wrong code", "rustacean", ErrWrongAccessCode},
		{"empty code", "", ErrInvalidDataProvided},
		{"oversized code", strings.Repeat("x", 200), ErrInvalidDataProvided},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), models.SessionRequest{AccessCode: tt.code})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	cfg := newTestAuthConfig()
	svc, err := NewAuthService(cfg, logger.Nop())
	require.NoError(t, err)

	token, err := utils.GenerateJWTToken(cfg.TokenIssuer, "client-1", -time.Minute, cfg.TokenSignKey)
	require.NoError(t, err)

	_, err = svc.ParseToken(context.Background(), token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpired)
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	cfg := newTestAuthConfig()
	svc, err := NewAuthService(cfg, logger.Nop())
	require.NoError(t, err)

	foreign, err := utils.GenerateJWTToken(cfg.TokenIssuer, "client-1", time.Hour, "another-key")
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-jwt", foreign.SignedString} {
		_, err = svc.ParseToken(context.Background(), raw)
		assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	}
}
