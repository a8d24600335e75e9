package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrInvalidToken      = errors.New("invalid or missing access token")
	ErrCompanyIDRequired = errors.New("company_id claim is missing or invalid")
)

// Service verifies caller tokens. Tokens are issued by the HRIS auth
// service; this process only verifies them and forwards them upstream.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	// GenerateAccessToken issues a token with the claims this service reads.
	// Used by tests and local tooling.
	GenerateAccessToken(userID string, companyID string, ttl time.Duration) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, companyID string, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"user_id":    userID,
		"company_id": companyID,
		"type":       "access",
		"exp":        expiresAt,
	})
	return token, expiresAt, err
}

// CompanyIDFromContext reads the company_id claim set by jwtauth.Verifier.
func CompanyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", ErrCompanyIDRequired
	}
	return companyID, nil
}

type rawTokenKey struct{}

// WithRawToken stores the caller's bearer token for forwarding.
func WithRawToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, rawTokenKey{}, token)
}

// RawTokenFromContext returns the caller's bearer token, or "".
func RawTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(rawTokenKey{}).(string)
	return token
}
