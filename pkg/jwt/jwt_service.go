package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logging"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ErrMissingSecret is returned when JWT_SECRET is empty. Nothing is signed or
// verified with an empty key.
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

type (
	JWTService interface {
		GenerateTokenUser(userID uint) (string, error)
		ParseUserToken(ctx context.Context, token string) (*UserClaims, error)
		RevokeToken(ctx context.Context, claims *UserClaims) error
	}

	UserClaims struct {
		UserID uint `json:"user_id"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		jwtRepository JWTRepository
		secretKey     string
		issuer        string
		ttl           time.Duration
		now           func() time.Time
	}
)

func NewJWTService(jwtRepository JWTRepository) JWTService {
	return &jwtService{
		jwtRepository: jwtRepository,
		secretKey:     utils.GetConfig("JWT_SECRET"),
		issuer:        "FOODGRAM",
		ttl:           time.Duration(utils.GetConfigInt("JWT_TTL_MINUTES", 60*24)) * time.Minute,
		now:           time.Now,
	}
}

func (j *jwtService) GenerateTokenUser(userID uint) (string, error) {
	if j.secretKey == "" {
		return "", ErrMissingSecret
	}
	now := j.now()
	claims := UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	if j.secretKey == "" {
		return nil, ErrMissingSecret
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ParseUserToken(ctx context.Context, token string) (*UserClaims, error) {
	t_Token, err := jwt.ParseWithClaims(token, &UserClaims{}, j.parseToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*UserClaims)
	if !ok || claims.UserID == 0 || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}

	revoked, err := j.jwtRepository.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}
	return claims, nil
}

func (j *jwtService) RevokeToken(ctx context.Context, claims *UserClaims) error {
	if claims == nil || claims.ID == "" {
		return domain.ErrTokenNotFound
	}

	expiresAt := j.now().Add(j.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := j.jwtRepository.RevokeToken(ctx, claims.ID, expiresAt); err != nil {
		return err
	}

	if err := j.jwtRepository.PurgeExpired(ctx, j.now()); err != nil {
		logging.Warn().Err(err).Msg("failed to purge expired revoked tokens")
	}
	return nil
}
