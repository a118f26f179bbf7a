// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

/*
Package identity implements the session side of the application: signing up,
signing in, restoring a persisted session, and signing out.

Architecture:

  - Controller: Owns the in-memory authenticated identity and orchestrates
    every session transition. State never changes outside its operations.
  - Gateway: Abstracted contract of the remote auth provider. The controller
    never sees tokens' wire format, password hashes, or storage details.
  - Profile: The user-visible record (username, role) that the provider
    creates asynchronously after account creation.

The profile record is provisioned by the backend after signup completes, so
the controller polls for it with bounded exponential backoff instead of
assuming it exists immediately.
*/
package identity

import (
	"context"
	"time"

	"github.com/bookhaven/bookhaven/internal/platform/sec"
)

// Session is the remote provider's view of an authenticated account.
type Session struct {
	UserID string
	Email  string
}

// Profile is the user-visible record attached to an account.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      sec.Role  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the resolved in-memory representation of the signed-in user,
// merging session and profile data.
type Identity struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Role     sec.Role `json:"role"`
}

// Gateway is the consumer-side contract of the remote auth provider.
type Gateway interface {
	// SignUpWithPassword creates a new account and returns an access token
	// together with the new session.
	SignUpWithPassword(ctx context.Context, email, password string) (string, *Session, error)

	// SignInWithPassword authenticates existing credentials.
	SignInWithPassword(ctx context.Context, email, password string) (string, *Session, error)

	// SignOut revokes the session behind the given access token.
	SignOut(ctx context.Context, token string) error

	// CurrentSession resolves an access token into its session. It returns
	// (nil, nil) when the token is empty, expired, or revoked; an error is
	// reserved for provider failures.
	CurrentSession(ctx context.Context, token string) (*Session, error)

	// ProfileByID looks up the profile record for an account id. A missing
	// record is reported as a not-found error, not a nil profile.
	ProfileByID(ctx context.Context, userID string) (*Profile, error)

	// ProfileByUsername looks up a profile by its claimed username.
	ProfileByUsername(ctx context.Context, username string) (*Profile, error)

	// SetProfileUsername claims a username on a freshly provisioned profile.
	SetProfileUsername(ctx context.Context, userID, username string) error
}
