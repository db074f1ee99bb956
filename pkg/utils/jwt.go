package utils

import (
	"time"

	common_models "go-telecrm/internal/common/models"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var jwtSecret = []byte("secret")

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

const UserClaimsKey = "user_claims"

type UserClaims struct {
	UserID string             `json:"user_id"`
	Role   common_models.Role `json:"role"`
	Store  string             `json:"store,omitempty"`
	jwt.RegisteredClaims
}

// RoleContext converts the claims to the caller scope the lead queries use.
func (c *UserClaims) RoleContext() common_models.RoleContext {
	return common_models.RoleContext{
		UserID: c.UserID,
		Role:   c.Role,
		Store:  c.Store,
	}
}

func GenerateToken(userID primitive.ObjectID, role common_models.Role, store string) (string, error) {
	claims := UserClaims{
		UserID: userID.Hex(),
		Role:   role,
		Store:  store,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}
