package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTTL  = time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload shared by access and refresh tokens:
// subject is the user id, plus email and role.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func SignAccess(userID uint, email, role string, accessSecret []byte) (string, error) {
	return sign(userID, email, role, AccessTTL, "", accessSecret)
}

// SignRefresh carries a random jti so two refresh tokens minted within the
// same second still differ.
func SignRefresh(userID uint, email, role string, refreshSecret []byte) (string, error) {
	return sign(userID, email, role, RefreshTTL, uuid.NewString(), refreshSecret)
}

func sign(userID uint, email, role string, ttl time.Duration, jti string, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*Claims, error) {
	return parse(tokenStr, accessSecret)
}

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*Claims, error) {
	return parse(tokenStr, refreshSecret)
}

func parse(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// UserIDFromSubject parses the numeric user id out of a token subject.
func UserIDFromSubject(sub string) (uint, error) {
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
