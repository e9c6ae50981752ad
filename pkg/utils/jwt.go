package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateRefreshToken creates a refresh token. The random jti keeps two
// tokens issued in the same second distinct, since the token column is unique.
func GenerateRefreshToken(userID uint, secret string, days int) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     expiresAt.Unix(),
		"jti":     GenerateRandomToken(24),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, expiresAt, err
}

// VerifyRefreshToken parses and validates a refresh token
func VerifyRefreshToken(tokenStr, secret string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid refresh token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	raw, ok := claims["user_id"].(float64)
	if !ok || raw <= 0 {
		return 0, errors.New("invalid claims")
	}
	return uint(raw), nil
}
