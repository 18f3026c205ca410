package security

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken(42)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)

	sig, err := ExtractSignature(token)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
}

func TestValidateRejectsTampered(t *testing.T) {
	token, err := GenerateToken(7)
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = ExtractSignature("not-a-jwt")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = BearerToken("Basic xyz")
	assert.ErrorIs(t, err, ErrTokenMissing)
	_, err = BearerToken("Bearer   ")
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	token, err := GenerateToken(9)
	require.NoError(t, err)

	claims, err := Authenticate(ctx, token, func(context.Context, string) (string, error) { return "", nil })
	require.NoError(t, err)
	assert.Equal(t, uint64(9), claims.UserID)

	// 已注销
	_, err = Authenticate(ctx, token, func(context.Context, string) (string, error) { return "1", nil })
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.True(t, IsCredentialError(err))

	// 查询故障不算凭证问题
	_, err = Authenticate(ctx, token, func(context.Context, string) (string, error) { return "", errors.New("redis down") })
	require.Error(t, err)
	assert.False(t, IsCredentialError(err))

	_, err = Authenticate(ctx, token+"x", nil)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
