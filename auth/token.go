package auth

import (
	"context"
	"errors"
	"time"

	"cafehere/apperr"
	"cafehere/metrics"
	"cafehere/model"
	"cafehere/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

const (
	msgTokenInvalid     = "Token is invalid or expired"
	msgTokenBlacklisted = "Token is blacklisted"
	msgUserInactive     = "User not found or inactive"
)

// Claims are embedded in both tokens of a pair. Subject carries the user uuid.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService issues, rotates and revokes HS256 token pairs.
type TokenService struct {
	cfg       TokenConfig
	users     repository.UserRepository
	blacklist Blacklist
	now       func() time.Time
}

func NewTokenService(cfg TokenConfig, users repository.UserRepository, blacklist Blacklist) *TokenService {
	return &TokenService{cfg: cfg, users: users, blacklist: blacklist, now: time.Now}
}

func (s *TokenService) Issue(_ context.Context, user *model.User) (*Pair, error) {
	access, err := s.sign(user, TypeAccess, s.cfg.AccessTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	refresh, err := s.sign(user, TypeRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	metrics.RecordToken(metrics.TokenIssued)
	return &Pair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) sign(user *model.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

// parse verifies signature, algorithm, expiry and token type.
func (s *TokenService) parse(raw, tokenType string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.TokenType != tokenType || claims.ID == "" {
		metrics.RecordToken(metrics.TokenRejected)
		return nil, apperr.Unauthorized(msgTokenInvalid)
	}
	return claims, nil
}

func (s *TokenService) activeUser(ctx context.Context, subject string) (*model.User, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperr.Unauthorized(msgTokenInvalid)
	}
	user, err := s.users.FindByUUID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized(msgUserInactive)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized(msgUserInactive)
	}
	return user, nil
}

// verifyRefresh runs every check a refresh token must pass before it is consumed.
func (s *TokenService) verifyRefresh(ctx context.Context, raw string) (*Claims, *model.User, error) {
	claims, err := s.parse(raw, TypeRefresh)
	if err != nil {
		return nil, nil, err
	}
	listed, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	if listed {
		metrics.RecordToken(metrics.TokenRejected)
		return nil, nil, apperr.Unauthorized(msgTokenBlacklisted)
	}
	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	return claims, user, nil
}

func (s *TokenService) consume(ctx context.Context, claims *Claims, user *model.User) error {
	err := s.blacklist.Add(ctx, claims.ID, user.UUID, claims.ExpiresAt.Time)
	if errors.Is(err, ErrAlreadyBlacklisted) {
		metrics.RecordToken(metrics.TokenRejected)
		return apperr.Unauthorized(msgTokenBlacklisted)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Refresh blacklists the presented refresh token and returns a new pair.
// A token can be refreshed at most once, even under concurrent use.
func (s *TokenService) Refresh(ctx context.Context, raw string) (*Pair, error) {
	claims, user, err := s.verifyRefresh(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := s.consume(ctx, claims, user); err != nil {
		return nil, err
	}
	pair, err := s.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.RecordToken(metrics.TokenRefreshed)
	log.Debug().Str("user", user.UUID.String()).Str("jti", claims.ID).Msg("refresh token rotated")
	return pair, nil
}

// Revoke blacklists the refresh token (logout).
func (s *TokenService) Revoke(ctx context.Context, raw string) error {
	claims, user, err := s.verifyRefresh(ctx, raw)
	if err != nil {
		return err
	}
	if err := s.consume(ctx, claims, user); err != nil {
		return err
	}
	metrics.RecordToken(metrics.TokenRevoked)
	return nil
}

// Authenticate resolves the user behind an access token. Access tokens are
// not blacklisted; they simply expire.
func (s *TokenService) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	claims, err := s.parse(raw, TypeAccess)
	if err != nil {
		return nil, err
	}
	return s.activeUser(ctx, claims.Subject)
}

func (s *TokenService) FlushExpired(ctx context.Context) (int64, error) {
	return s.blacklist.FlushExpired(ctx)
}
