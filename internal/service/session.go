package service

import (
	"context"
	"strings"

	"closet-backend/internal/config"
	"closet-backend/internal/domain"
	"closet-backend/internal/logger"
	"closet-backend/internal/security"
)

type sessionService struct {
	tokens      security.TokenManager
	adminEmails []string
}

func NewSessionService(tokens security.TokenManager, cfg config.JWTConfig) SessionService {
	admins := make([]string, 0, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins = append(admins, strings.ToLower(strings.TrimSpace(email)))
	}
	return &sessionService{tokens: tokens, adminEmails: admins}
}

func (s *sessionService) Login(ctx context.Context, email string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", "", domain.NewValidationError("a valid email address is required")
	}

	role := security.RoleStaff
	for _, admin := range s.adminEmails {
		if admin == email {
			role = security.RoleAdmin
			break
		}
	}

	token, err := s.tokens.Generate(email, role)
	if err != nil {
		return "", "", domain.NewStoreError("sign session token", err)
	}

	logger.Info("session opened", "email", email, "role", role)
	return token, role, nil
}
