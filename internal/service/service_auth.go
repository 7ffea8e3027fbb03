package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/workshop-qa/internal/config"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/utils"
	"github.com/MKhiriev/workshop-qa/internal/validators"
	"github.com/MKhiriev/workshop-qa/models"
)

// authService is the concrete implementation of AuthService.
// Every client presenting the workshop access code gets a token bound to a
// fresh client ID.
type authService struct {
	// accessCodeHash is the bcrypt hash of the access code. Empty means
	// access control is disabled.
	accessCodeHash []byte

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	validator validators.Validator

	logger *logger.Logger
}

// NewAuthService constructs an AuthService from cfg. A plain AccessCode is
// hashed once here when no AccessCodeHash is configured.
func NewAuthService(cfg config.App, logger *logger.Logger) (AuthService, error) {
	hash := []byte(cfg.AccessCodeHash)
	if len(hash) == 0 && cfg.AccessCode != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AccessCode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing access code: %w", err)
		}
	}

	return &authService{
		accessCodeHash: hash,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		validator:      validators.NewEntryValidator(),
		logger:         logger,
	}, nil
}

func (a *authService) Enabled() bool {
	return len(a.accessCodeHash) > 0
}

// Login checks req.AccessCode and issues a session token.
//
// Returns:
//   - ErrAuthDisabled when no access code is configured.
//   - ErrInvalidDataProvided if the code is empty or too long.
//   - ErrWrongAccessCode if the code does not match.
//   - ErrTokenCreationFailed if signing fails.
func (a *authService) Login(ctx context.Context, req models.SessionRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if !a.Enabled() {
		return models.Token{}, ErrAuthDisabled
	}

	if err := a.validator.Validate(ctx, req); err != nil {
		log.Err(err).Msg("invalid session request")
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if err := bcrypt.CompareHashAndPassword(a.accessCodeHash, []byte(req.AccessCode)); err != nil {
		log.Err(err).Msg("wrong access code")
		return models.Token{}, ErrWrongAccessCode
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, utils.NewTraceID(), a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	log.Info().Str("client_id", token.ClientID).Msg("session opened")
	return token, nil
}

// ParseToken validates a raw JWT. Expired tokens yield ErrTokenIsExpired,
// every other failure ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenIsExpired
		}
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
