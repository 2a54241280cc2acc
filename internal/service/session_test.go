package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closet-backend/internal/config"
	"closet-backend/internal/domain"
	"closet-backend/internal/security"
)

func newSessionService() SessionService {
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef")
	return NewSessionService(tokens, config.JWTConfig{
		AdminEmails: []string{"Owner@Example.com"},
	})
}

func TestLogin_AdminMatchIsCaseInsensitive(t *testing.T) {
	svc := newSessionService()

	token, role, err := svc.Login(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, security.RoleAdmin, role)
}

func TestLogin_DefaultsToStaff(t *testing.T) {
	svc := newSessionService()

	_, role, err := svc.Login(context.Background(), "attendant@example.com")
	require.NoError(t, err)
	assert.Equal(t, security.RoleStaff, role)
}

func TestLogin_RequiresEmail(t *testing.T) {
	svc := newSessionService()

	var validation *domain.ValidationError

	_, _, err := svc.Login(context.Background(), "")
	require.ErrorAs(t, err, &validation)

	_, _, err = svc.Login(context.Background(), "not-an-email")
	require.ErrorAs(t, err, &validation)
}
