package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/artemis-health/artemis/internal/models"
	"github.com/artemis-health/artemis/internal/security"
	"github.com/artemis-health/artemis/internal/services"
	"github.com/artemis-health/artemis/internal/session"
	"github.com/sirupsen/logrus"
)

const temporaryPasswordLength = 12

type PasswordResetter interface {
	ResetPassword(ctx context.Context, emailRaw string, password string) (models.User, error)
}

type SessionRevoker interface {
	InvalidateUser(ctx context.Context, userID uint) (int, error)
}

var (
	_ PasswordResetter = (*services.AuthService)(nil)
	_ SessionRevoker   = (*session.Manager)(nil)
)

// RunResetPasswordCommand sets a generated password for the account and signs
// every session of it out. The password is printed once to out.
func RunResetPasswordCommand(ctx context.Context, auth PasswordResetter, sessions SessionRevoker, log logrus.FieldLogger, email string, out io.Writer) error {
	if services.NormalizeAuthEmail(email) == "" {
		return errors.New("a valid --email is required")
	}

	temporaryPassword, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}

	user, err := auth.ResetPassword(ctx, email, temporaryPassword)
	if errors.Is(err, services.ErrUserNotFound) {
		return fmt.Errorf("user %s not found", services.NormalizeAuthEmail(email))
	}
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	revoked, err := sessions.InvalidateUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("sign out sessions: %w", err)
	}
	log.WithFields(logrus.Fields{"user_id": user.ID, "revoked_sessions": revoked}).Info("password reset")

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintf(out, "Signed out %d session(s).\n", revoked)
	return nil
}
