// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bookhaven/bookhaven/internal/identity"
	"github.com/bookhaven/bookhaven/internal/platform/constants"
	"github.com/bookhaven/bookhaven/internal/platform/database/schema"
	"github.com/bookhaven/bookhaven/internal/platform/dberr"
	"github.com/bookhaven/bookhaven/internal/platform/sec"
	"github.com/bookhaven/bookhaven/pkg/uuid"
)

// # Account Lifecycle

/*
SignUpWithPassword creates a new account and opens its first session.

Description: The profile row is NOT created here. A database trigger on the
account insert provisions it, so callers must expect the profile to appear
shortly after this returns rather than immediately.

Returns:
  - string: Signed access token
  - *identity.Session: The opened session
  - error: Conflict when the email is registered, or storage failures
*/
func (service *Service) SignUpWithPassword(ctx context.Context, email, password string) (string, *identity.Session, error) {
	email = normalizeEmail(email)

	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return "", nil, fmt.Errorf("hash_password_failed: %w", err)
	}

	accountID := uuid.New()
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
	`,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
		schema.UserAccount.Email,
		schema.UserAccount.Password,
		schema.UserAccount.CreatedAt,
	)

	if _, err := service.pool.Exec(ctx, sql, accountID, email, hashedPassword, time.Now()); err != nil {
		return "", nil, dberr.Wrap(err, "Email is already registered")
	}

	service.logger.Info("account_created", slog.String("user_id", accountID))

	return service.openSession(ctx, accountID, email)
}

/*
SignInWithPassword authenticates credentials and opens a session.

Description: A missing account and a wrong password produce the same error
so callers cannot probe which emails are registered.

Returns:
  - string: Signed access token
  - *identity.Session: The opened session
  - error: Authentication or storage failures
*/
func (service *Service) SignInWithPassword(ctx context.Context, email, password string) (string, *identity.Session, error) {
	email = normalizeEmail(email)

	sql := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = $1",
		schema.UserAccount.ID,
		schema.UserAccount.Password,
		schema.UserAccount.Table,
		schema.UserAccount.Email,
	)

	var accountID, hashedPassword string
	if err := service.pool.QueryRow(ctx, sql, email).Scan(&accountID, &hashedPassword); err != nil {
		return "", nil, dberr.Wrap(err, "")
	}

	if !sec.CheckPasswordHash(password, hashedPassword) {
		return "", nil, dberr.ErrNotFound
	}

	return service.openSession(ctx, accountID, email)
}

// # Session Management

// openSession signs an access token and registers its id in Redis. The
// Redis entry is the revocation authority: no entry, no session.
func (service *Service) openSession(ctx context.Context, userID, email string) (string, *identity.Session, error) {
	token, sessionID, err := service.tokens.GenerateAccessToken(userID, email, constants.SessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("sign_token_failed: %w", err)
	}

	key := constants.RedisPrefixSession + sessionID
	if err := service.rdb.Set(ctx, key, userID, constants.SessionTTL).Err(); err != nil {
		return "", nil, fmt.Errorf("redis: failed to store session: %w", err)
	}

	return token, &identity.Session{UserID: userID, Email: email}, nil
}

/*
CurrentSession resolves an access token into its live session.

Description: An invalid, expired, or revoked token yields (nil, nil), the
plain signed-out state. Errors are reserved for backend failures while the
token itself is fine.

Returns:
  - *identity.Session: The live session, or nil
  - error: Redis failures
*/
func (service *Service) CurrentSession(ctx context.Context, token string) (*identity.Session, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		// Tampered or expired. Signed out, not a failure.
		return nil, nil
	}

	key := constants.RedisPrefixSession + claims.ID
	storedUserID, err := service.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		// Revoked by sign-out.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: failed to load session: %w", err)
	}
	if storedUserID != claims.UserID {
		service.logger.Warn("session_user_mismatch", slog.String("session_id", claims.ID))
		return nil, nil
	}

	return &identity.Session{UserID: claims.UserID, Email: claims.Email}, nil
}

/*
SignOut revokes the session behind the given access token.

Description: Revocation deletes the Redis entry; the JWT itself cannot be
recalled but becomes useless without it. An already invalid token is a
successful no-op.

Returns:
  - error: Redis failures
*/
func (service *Service) SignOut(ctx context.Context, token string) error {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil
	}

	key := constants.RedisPrefixSession + claims.ID
	if err := service.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: failed to revoke session: %w", err)
	}

	service.logger.Info("session_revoked", slog.String("user_id", claims.UserID))
	return nil
}

// normalizeEmail canonicalizes an address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
