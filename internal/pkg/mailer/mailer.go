// Package mailer holds the verification-mail collaborator used in
// development and operational tooling. Real delivery lives outside this
// module.
package mailer

import (
	"context"

	"go.uber.org/zap"

	"userhub/internal/domain"
)

// Console logs the mail instead of sending it.
type Console struct {
	log *zap.Logger
}

func NewConsole(log *zap.Logger) *Console {
	return &Console{log: log}
}

func (m *Console) SendVerificationEmail(_ context.Context, u *domain.User) error {
	token := ""
	if u.VerificationToken != nil {
		token = *u.VerificationToken
	}
	m.log.Info("verification email",
		zap.String("email", u.Email),
		zap.String("token", token))
	return nil
}
