package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeep/internal/auth/store"
	"github.com/aussiebroadwan/gatekeep/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// LoginResult is a successful login: the user plus a fresh token pair.
type LoginResult struct {
	User   domain.User
	Tokens domain.TokenPair
}

// Login checks the password and opens a new refresh grant.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, err
		}
		burnVerify(password)
		s.Metrics.AuthFailure("login", "bad_credentials")
		l.Info("login failed", slog.String("username", username))
		return LoginResult{}, ErrNotFound
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrInvalidHash) {
			l.Error("stored password digest unreadable", slog.Int64("user_id", user.ID))
		}
		s.Metrics.AuthFailure("login", "bad_credentials")
		l.Info("login failed", slog.String("username", username))
		return LoginResult{}, ErrNotFound
	}

	access, err := s.issueAccess(user)
	if err != nil {
		return LoginResult{}, err
	}
	refresh, exp, err := s.issueRefresh(user)
	if err != nil {
		return LoginResult{}, err
	}

	_, err = s.Store.Grants().CreateGrant(ctx, domain.Grant{
		Refresh:   cryptox.FingerprintToken(refresh),
		UserID:    user.ID,
		ExpiresAt: exp,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("create grant: %w", err)
	}

	l.Info("login succeeded", slog.Int64("user_id", user.ID))
	return LoginResult{
		User:   user,
		Tokens: domain.TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}

// Refresh exchanges a refresh token for a new pair and rotates the grant so
// the presented token can never be used again. When two calls race on the
// same token the conditional update lets exactly one through; the other
// gets ErrBadRequest.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if _, err := s.verify(ctx, "refresh", refreshToken, jwtx.Refresh); err != nil {
		return domain.TokenPair{}, err
	}

	oldFP := cryptox.FingerprintToken(refreshToken)

	var pair domain.TokenPair
	var userID int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		grant, err := tx.Grants().GetGrantByRefresh(ctx, oldFP)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBadRequest
			}
			return err
		}
		userID = grant.UserID

		user, err := tx.Users().GetUserByID(ctx, grant.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		access, err := s.issueAccess(user)
		if err != nil {
			return err
		}
		refresh, exp, err := s.issueRefresh(user)
		if err != nil {
			return err
		}

		err = tx.Grants().RotateGrant(ctx, grant.ID, oldFP, cryptox.FingerprintToken(refresh), exp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBadRequest
			}
			return fmt.Errorf("rotate grant: %w", err)
		}

		pair = domain.TokenPair{AccessToken: access, RefreshToken: refresh}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBadRequest) {
			s.Metrics.AuthFailure("refresh", "unknown_grant")
			l.Warn("refresh token not recognised, possible replay")
		}
		return domain.TokenPair{}, err
	}

	s.Metrics.RefreshRotated()
	l.Info("refresh grant rotated", slog.Int64("user_id", userID))
	return pair, nil
}

// Logout revokes the grant behind refreshToken. The access token
// identifies the caller and the grant is only removed when it belongs to
// them. A missing refresh token, or one already gone, still succeeds.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	user, err := s.GetAuthenticatedUser(ctx, accessToken)
	if err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}

	deleted, err := s.Store.Grants().DeleteGrant(ctx, cryptox.FingerprintToken(refreshToken), user.ID)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}

	slogx.FromContext(ctx).Info("logout",
		slog.Int64("user_id", user.ID),
		slog.Bool("grant_revoked", deleted),
	)
	return nil
}

func (s *AuthService) issueAccess(user domain.User) (string, error) {
	tok, err := s.Codec.EncodeAccess(user.Email, user.ID)
	if err != nil {
		return "", err
	}
	s.Metrics.TokenIssued(jwtx.Access.String())
	return tok, nil
}

func (s *AuthService) issueRefresh(user domain.User) (string, time.Time, error) {
	tok, exp, err := s.Codec.EncodeRefresh(user.Email)
	if err != nil {
		return "", time.Time{}, err
	}
	s.Metrics.TokenIssued(jwtx.Refresh.String())
	return tok, exp, nil
}
