// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/internal/platform/sec"
	"github.com/bookhaven/bookhaven/internal/platform/validate"
)

// # User-Facing Messages
//
// Session failures deliberately collapse to short, fixed strings. Invalid
// credentials in particular never reveal whether the email or the password
// was the wrong half.
const (
	MsgInvalidCredentials = "Invalid email or password. Please try again."
	MsgUsernameTaken      = "Username is already taken"
	MsgSignUpFailed       = "Failed to create account. Please try again."
	MsgSignOutFailed      = "Failed to sign out. Please try again."
	MsgSessionCheckFailed = "Failed to check authentication status. Please try again."
	MsgProfilePending     = "Account created, but profile setup is still in progress. Please sign in again in a moment."
)

const (
	defaultPollAttempts  = 5
	defaultPollBaseDelay = 100 * time.Millisecond
)

// Controller owns the in-memory authenticated identity.
//
// # Concurrency
//
// State is mutex-guarded; gateway calls happen outside the lock. Session
// operations (sign-in, sign-up, sign-out, restore) are individually atomic
// with respect to the stored identity.
type Controller struct {
	gateway Gateway
	logger  *slog.Logger

	// PollAttempts and PollBaseDelay control the profile provisioning poll
	// after signup. The delay doubles per attempt. Set before first use.
	PollAttempts  int
	PollBaseDelay time.Duration

	mu      sync.Mutex
	token   string
	user    *Identity
	loading bool
	errMsg  string
}

// NewController constructs an identity [Controller] with injected
// dependencies and default poll policy.
func NewController(gateway Gateway, logger *slog.Logger) *Controller {
	return &Controller{
		gateway:       gateway,
		logger:        logger,
		PollAttempts:  defaultPollAttempts,
		PollBaseDelay: defaultPollBaseDelay,
	}
}

// Snapshot is a read-only view of session state for the presentation layer.
type Snapshot struct {
	User      *Identity `json:"user"`
	IsLoading bool      `json:"is_loading"`
	Error     string    `json:"error,omitempty"`
}

// Snapshot returns a copy of the current session state.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	var user *Identity
	if controller.user != nil {
		copied := *controller.user
		user = &copied
	}

	return Snapshot{
		User:      user,
		IsLoading: controller.loading,
		Error:     controller.errMsg,
	}
}

// Current returns a copy of the signed-in identity, or nil.
func (controller *Controller) Current() *Identity {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.user == nil {
		return nil
	}
	copied := *controller.user
	return &copied
}

// CurrentUserID returns the signed-in account id, or "" when signed out.
func (controller *Controller) CurrentUserID() string {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.user == nil {
		return ""
	}
	return controller.user.ID
}

// ClearError resets the user-facing error message.
func (controller *Controller) ClearError() {
	controller.mu.Lock()
	controller.errMsg = ""
	controller.mu.Unlock()
}

// # Sign-Up Flow

/*
SignUp creates a new account, waits for its profile to be provisioned, and
claims the requested username.

Description: The remote provider creates the profile record asynchronously
after account creation, so the username claim cannot happen inline. The
controller polls for the profile with bounded exponential backoff; if the
profile never appears the account still exists and a distinct message tells
the user to finish setup by signing in later.

Returns:
  - error: CONFLICT when the username is taken (checked before any account
    is created), VALIDATION_ERROR, or operation failures
*/
func (controller *Controller) SignUp(ctx context.Context, email, password, username string) error {
	controller.begin()
	defer controller.finish()

	validator := &validate.Validator{}
	validator.Required("email", email).
		Email("email", email).
		Required("password", password).
		MinLen("password", password, 8).
		Required("username", username).
		MinLen("username", username, 3)
	if err := validator.Err(); err != nil {
		return err
	}

	// Claim check runs first so a taken username never creates an account.
	_, err := controller.gateway.ProfileByUsername(ctx, username)
	if err == nil {
		controller.setError(MsgUsernameTaken)
		return apperr.Conflict(MsgUsernameTaken)
	}
	if !apperr.IsNotFound(err) {
		controller.logger.Error("signup_username_check_failed", slog.Any("error", err))
		controller.setError(MsgSignUpFailed)
		return apperr.OperationFailed(MsgSignUpFailed, err)
	}

	token, session, err := controller.gateway.SignUpWithPassword(ctx, email, password)
	if err != nil {
		controller.logger.Error("signup_failed", slog.Any("error", err))
		controller.setError(MsgSignUpFailed)
		return apperr.OperationFailed(MsgSignUpFailed, err)
	}

	controller.mu.Lock()
	controller.token = token
	controller.mu.Unlock()

	provisioned, err := controller.awaitProfile(ctx, session.UserID)
	if err != nil {
		controller.logger.Error("signup_profile_poll_failed", slog.Any("error", err))
		controller.setError(MsgSignUpFailed)
		return apperr.OperationFailed(MsgSignUpFailed, err)
	}
	if !provisioned {
		controller.logger.Warn("signup_profile_not_provisioned",
			slog.String("user_id", session.UserID),
		)
		controller.setError(MsgProfilePending)
		return apperr.OperationFailed(MsgProfilePending, nil)
	}

	if err := controller.gateway.SetProfileUsername(ctx, session.UserID, username); err != nil {
		controller.logger.Error("signup_username_claim_failed", slog.Any("error", err))
		controller.setError(MsgSignUpFailed)
		return apperr.OperationFailed(MsgSignUpFailed, err)
	}

	return controller.resolveIdentity(ctx)
}

// awaitProfile polls for the asynchronously provisioned profile record,
// doubling the delay on each miss. It reports whether the profile appeared.
func (controller *Controller) awaitProfile(ctx context.Context, userID string) (bool, error) {
	delay := controller.PollBaseDelay

	for attempt := 0; attempt < controller.PollAttempts; attempt++ {
		_, err := controller.gateway.ProfileByID(ctx, userID)
		if err == nil {
			return true, nil
		}
		if !apperr.IsNotFound(err) {
			return false, err
		}
		if attempt == controller.PollAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return false, nil
}

// # Sign-In Flow

/*
SignIn authenticates existing credentials and loads the resolved identity.

Description: Every authentication failure collapses to the same fixed
invalid-credentials message regardless of cause.

Returns:
  - error: UNAUTHORIZED with the fixed message, or VALIDATION_ERROR
*/
func (controller *Controller) SignIn(ctx context.Context, email, password string) error {
	controller.begin()
	defer controller.finish()

	validator := &validate.Validator{}
	validator.Required("email", email).Required("password", password)
	if err := validator.Err(); err != nil {
		return err
	}

	token, _, err := controller.gateway.SignInWithPassword(ctx, email, password)
	if err != nil {
		controller.logger.Warn("signin_failed", slog.Any("error", err))
		controller.setError(MsgInvalidCredentials)
		return apperr.Unauthorized(MsgInvalidCredentials)
	}

	controller.mu.Lock()
	controller.token = token
	controller.mu.Unlock()

	return controller.resolveIdentity(ctx)
}

// # Session Restore

/*
Restore resolves the persisted access token into an in-memory identity.

Description: Run at startup and after sign-in/sign-up. An absent or expired
session, or a session whose profile record is missing, is a normal signed-out
state, not an error. A profile that exists with an empty username resolves
with the email as the display name.

Returns:
  - error: Operation failures from the provider
*/
func (controller *Controller) Restore(ctx context.Context) error {
	controller.begin()
	defer controller.finish()

	return controller.resolveIdentity(ctx)
}

func (controller *Controller) resolveIdentity(ctx context.Context) error {
	controller.mu.Lock()
	token := controller.token
	controller.mu.Unlock()

	if token == "" {
		controller.setIdentity(nil)
		return nil
	}

	session, err := controller.gateway.CurrentSession(ctx, token)
	if err != nil {
		controller.logger.Error("session_check_failed", slog.Any("error", err))
		controller.setError(MsgSessionCheckFailed)
		return apperr.OperationFailed(MsgSessionCheckFailed, err)
	}
	if session == nil {
		// Expired or revoked. Plain signed-out state.
		controller.mu.Lock()
		controller.token = ""
		controller.user = nil
		controller.mu.Unlock()
		return nil
	}

	resolved := &Identity{
		ID:       session.UserID,
		Email:    session.Email,
		Username: session.Email,
		Role:     sec.RoleUser,
	}

	profile, err := controller.gateway.ProfileByID(ctx, session.UserID)
	switch {
	case err == nil:
		if profile.Username != "" {
			resolved.Username = profile.Username
		}
		if profile.Role != "" {
			resolved.Role = profile.Role
		}
	case apperr.IsNotFound(err):
		// A session without a profile record resolves to signed out. Role
		// must come from the profile row, never from the session alone.
		controller.setIdentity(nil)
		return nil
	default:
		controller.logger.Error("session_profile_lookup_failed", slog.Any("error", err))
		controller.setError(MsgSessionCheckFailed)
		return apperr.OperationFailed(MsgSessionCheckFailed, err)
	}

	controller.setIdentity(resolved)
	return nil
}

// # Sign-Out

/*
SignOut revokes the current session and clears the in-memory identity.

Description: The local identity clears unconditionally, even when remote
revocation fails; in that case the fixed sign-out message is surfaced.

Returns:
  - error: Operation failure from the provider
*/
func (controller *Controller) SignOut(ctx context.Context) error {
	controller.begin()
	defer controller.finish()

	controller.mu.Lock()
	token := controller.token
	controller.token = ""
	controller.user = nil
	controller.mu.Unlock()

	if token == "" {
		return nil
	}

	if err := controller.gateway.SignOut(ctx, token); err != nil {
		controller.logger.Error("signout_failed", slog.Any("error", err))
		controller.setError(MsgSignOutFailed)
		return apperr.OperationFailed(MsgSignOutFailed, err)
	}

	return nil
}

// # Internal State Helpers

func (controller *Controller) begin() {
	controller.mu.Lock()
	controller.loading = true
	controller.errMsg = ""
	controller.mu.Unlock()
}

func (controller *Controller) finish() {
	controller.mu.Lock()
	controller.loading = false
	controller.mu.Unlock()
}

func (controller *Controller) setError(msg string) {
	controller.mu.Lock()
	controller.errMsg = msg
	controller.mu.Unlock()
}

func (controller *Controller) setIdentity(user *Identity) {
	controller.mu.Lock()
	controller.user = user
	controller.mu.Unlock()
}
