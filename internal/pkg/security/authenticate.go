package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTokenMissing = errors.New("token 缺失或格式错误")
	ErrTokenInvalid = errors.New("token 无效或已过期")
)

// RevokedLookup 以签名查询注销记录，返回非空即已注销
type RevokedLookup func(ctx context.Context, signature string) (string, error)

// BearerToken 从 Authorization 头中取出 Token
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrTokenMissing
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrTokenMissing
	}
	return token, nil
}

// Authenticate 校验注销状态与签名，返回身份信息
// 凭证问题返回 ErrTokenMissing / ErrTokenInvalid，其余为查询故障
func Authenticate(ctx context.Context, token string, revoked RevokedLookup) (*UserClaims, error) {
	signature, err := ExtractSignature(token)
	if err != nil {
		return nil, ErrTokenMissing
	}

	if revoked != nil {
		value, err := revoked(ctx, signature)
		if err != nil {
			return nil, fmt.Errorf("查询 Token 注销状态失败: %w", err)
		}
		if value != "" {
			return nil, ErrTokenInvalid
		}
	}

	claims, err := ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return claims, nil
}

// IsCredentialError 是否为凭证本身的问题
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrTokenMissing) || errors.Is(err, ErrTokenInvalid)
}
