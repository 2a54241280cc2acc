package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager(testSecret)

	token, err := tm.Generate("owner@example.com", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret).Generate("staff@example.com", RoleStaff)
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret-another-secret!!!").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	tm := NewTokenManager(testSecret)

	_, err := tm.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.Validate("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
