package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/userservice-go/config"
)

// Decode failure kinds. The distinction matters for client retry logic:
// an expired token means "log in again", a malformed token or bad signature
// means corrupt client state. The HTTP boundary collapses all three to 401
// but logs them distinctly.
var (
	// ErrTokenMalformed means the string is not syntactically a token.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenBadSignature means the signature does not verify, including
	// tokens signed with a different key.
	ErrTokenBadSignature = errors.New("token signature is invalid")
	// ErrTokenExpired means the signature verified but the token is past
	// its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// Claims is the payload of issued tokens: the account identity plus the
// standard issued-at and expiry claims.
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and decodes HS256-signed bearer tokens. The signing
// secret is process-wide state, injected once at construction; validity is a
// pure function of signature and expiry, so nothing is stored server-side.
type TokenService struct {
	secret        []byte
	tokenDuration time.Duration
}

// NewTokenService creates a TokenService from the auth configuration.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		secret:        []byte(cfg.JWTSecret),
		tokenDuration: cfg.TokenDuration,
	}
}

// Issue signs a token for the given account identity, valid from now for the
// configured duration.
func (s *TokenService) Issue(accountID int, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   accountID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
			Subject:   strconv.Itoa(accountID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature first, then the expiry, and returns the
// embedded claims. On failure exactly one of ErrTokenMalformed,
// ErrTokenBadSignature, or ErrTokenExpired is returned (wrapped). An expired
// token with a valid signature is always reported as expired, never as a
// signature failure.
func (s *TokenService) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrTokenBadSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	if !token.Valid {
		return nil, ErrTokenBadSignature
	}

	return claims, nil
}
