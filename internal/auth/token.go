package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"carshare/internal/apperrors"
	"carshare/internal/booking"
)

const tokenTTL = 24 * time.Hour

// CreateAccessToken signs an HS256 token carrying the user id and role.
func CreateAccessToken(secret string, userID int, role booking.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.Itoa(userID),
		"role": string(role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken verifies the token and returns the actor it identifies.
func ParseAccessToken(secret, tokenString string) (booking.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return booking.Actor{}, apperrors.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return booking.Actor{}, apperrors.ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	userID, err := strconv.Atoi(sub)
	if err != nil {
		return booking.Actor{}, apperrors.ErrInvalidCredentials
	}
	roleStr, _ := claims["role"].(string)
	role := booking.Role(roleStr)
	if !role.Valid() {
		return booking.Actor{}, apperrors.ErrInvalidCredentials
	}
	return booking.Actor{ID: userID, Role: role}, nil
}
