package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/internal/auth/store"
	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// Signup creates a user with a hashed password. The email check and the
// insert share one transaction; the unique indexes catch whatever races
// past the check.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return ErrAlreadyExists
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		user, err = tx.Users().CreateUser(ctx, domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrAlreadyExists
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			s.Metrics.AuthFailure("signup", "already_exists")
			l.Info("signup rejected, user exists", slog.String("username", username))
		}
		return domain.User{}, err
	}

	l.Info("user created", slog.Int64("user_id", user.ID))
	return user, nil
}

// GetAuthenticatedUser resolves the user an access token was issued for.
func (s *AuthService) GetAuthenticatedUser(ctx context.Context, accessToken string) (domain.User, error) {
	claims, err := s.verify(ctx, "user", accessToken, jwtx.Access)
	if err != nil {
		return domain.User{}, err
	}

	userID, err := claims.UserIDClaim()
	if err != nil {
		s.Metrics.AuthFailure("user", "missing_claim")
		return domain.User{}, ErrUnauthorized
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.AuthFailure("user", "unknown_user")
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// verify decodes token under kind and rejects it when expired. Every
// failure collapses to ErrUnauthorized; the reason only reaches logs and
// metrics.
func (s *AuthService) verify(ctx context.Context, op, token string, kind jwtx.Kind) (*jwtx.Claims, error) {
	claims, err := s.Codec.Decode(token, kind)
	if err != nil {
		reason := "invalid_signature"
		if errors.Is(err, jwtx.ErrMalformed) {
			reason = "malformed"
		}
		s.Metrics.AuthFailure(op, reason)
		slogx.FromContext(ctx).Info("token rejected",
			slog.String("operation", op),
			slog.String("kind", kind.String()),
			slog.String("reason", reason),
		)
		return nil, ErrUnauthorized
	}

	if s.Codec.IsExpired(claims) {
		s.Metrics.AuthFailure(op, "expired")
		return nil, ErrUnauthorized
	}
	return claims, nil
}
