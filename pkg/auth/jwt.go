package auth

import (
	"errors"
	"time"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrTokenExpired distinguishes an expired credential from a malformed one.
var ErrTokenExpired = jwt.ErrTokenExpired

// Claims holds the typed JWT payload: identity plus role flags.
type Claims struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsVendor    bool   `json:"is_vendor"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

func accessSecret() []byte  { return []byte(config.JWTSecret()) }
func refreshSecret() []byte { return []byte(config.RefreshTokenSecret()) }

// GenerateAccessToken creates a signed short-lived JWT for the given identity.
func GenerateAccessToken(username, email string, isVendor, isSuperuser bool) (string, error) {
	return generate(username, email, isVendor, isSuperuser, config.AccessTokenTTL(), accessSecret())
}

// GenerateRefreshToken creates a longer-lived token used to refresh access.
func GenerateRefreshToken(username, email string, isVendor, isSuperuser bool) (string, error) {
	return generate(username, email, isVendor, isSuperuser, config.RefreshTokenTTL(), refreshSecret())
}

func generate(username, email string, isVendor, isSuperuser bool, ttl time.Duration, secret []byte) (string, error) {
	claims := Claims{
		Username:    username,
		Email:       email,
		IsVendor:    isVendor,
		IsSuperuser: isSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAccessToken parses and validates an access JWT string.
// Returns ErrTokenExpired (via errors.Is) for an expired token.
func ValidateAccessToken(t string) (*Claims, error) {
	return validate(t, accessSecret())
}

// ValidateRefreshToken parses and validates a refresh JWT string.
func ValidateRefreshToken(t string) (*Claims, error) {
	return validate(t, refreshSecret())
}

func validate(t string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
