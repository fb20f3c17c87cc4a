package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ideahub-dev/ideahub/internal/domain"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
	"github.com/ideahub-dev/ideahub/internal/logger"
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*jwt.Token, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = user.Id
	claims["name"] = user.Name
	claims["role"] = user.Role
	claims["department"] = user.Department
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("can't sign token", "error", err)
		return "", internal_errors.Upstream("token signing", err)
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{
				Message:    fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]),
				StatusCode: http.StatusUnauthorized,
				Code:       "unauthorized",
			}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, internal_errors.Unauthenticated("Invalid token signature")
	}

	if !token.Valid {
		return nil, internal_errors.Unauthenticated("Invalid access token")
	}

	return token, nil
}

// UserFromClaims reconstructs the caller identity from decoded claims.
func UserFromClaims(claims jwt.MapClaims) (*domain.User, error) {
	uidFloat, ok := claims["uid"].(float64)
	if !ok {
		return nil, internal_errors.Unauthenticated("Invalid token claims")
	}
	role, ok := claims["role"].(string)
	if !ok || !domain.ValidRole(role) {
		return nil, internal_errors.Unauthenticated("Invalid token claims")
	}
	name, _ := claims["name"].(string)
	department, _ := claims["department"].(string)

	return &domain.User{
		Id:         int64(uidFloat),
		Name:       name,
		Role:       role,
		Department: department,
	}, nil
}
