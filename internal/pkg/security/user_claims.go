package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultSecret     = "iqnet-dev-secret"
	defaultExpiration = time.Hour * 24
	issuer            = "IQNet"
)

// UserClaims Token 中携带的身份信息
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}
