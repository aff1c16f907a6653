package auth

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer registra o token de redefinição no log em vez de enviar e-mail.
// Suficiente para desenvolvimento; produção troca por um Mailer de verdade.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.Log.Info("password reset requested",
		zap.String("email", email),
		zap.String("token", token),
	)
	return nil
}
