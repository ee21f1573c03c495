package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"procurement/models"
)

// Claims carries the caller's identity: the user, the role and the vendor or
// contractor profile linked to that user.
type Claims struct {
	UserID       int64       `json:"user_id"`
	Role         models.Role `json:"role"`
	VendorID     int64       `json:"vendor_id,omitempty"`
	ContractorID int64       `json:"contractor_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() models.Actor {
	return models.Actor{
		UserID:       c.UserID,
		Role:         c.Role,
		VendorID:     c.VendorID,
		ContractorID: c.ContractorID,
	}
}

// GenerateJWT signs an HS256 token for actor valid for ttl.
func GenerateJWT(actor models.Actor, secretKey string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:       actor.UserID,
		Role:         actor.Role,
		VendorID:     actor.VendorID,
		ContractorID: actor.ContractorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(actor.UserID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT verifies a token and returns its claims. Tokens with an unknown
// role are rejected.
func ValidateJWT(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid JWT")
	}
	if !models.ValidRole(claims.Role) {
		return nil, fmt.Errorf("invalid JWT: unknown role %q", claims.Role)
	}
	return claims, nil
}
