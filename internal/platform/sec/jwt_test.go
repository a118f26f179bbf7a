// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestTokenService_RoundTrip verifies that a generated token carries the
expected claims back through verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "bookhaven.test")
	require.NoError(t, err)

	token, sessionID, err := service.GenerateAccessToken("user-123", "user@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, sessionID)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, sessionID, claims.ID)
	assert.Equal(t, "bookhaven.test", claims.Issuer)
}

/*
TestTokenService_Expired verifies that an expired token is rejected.
*/
func TestTokenService_Expired(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "bookhaven.test")
	require.NoError(t, err)

	token, _, err := service.GenerateAccessToken("user-123", "user@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_WrongSecret verifies that a token signed with a different
secret fails verification.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	issuerService, err := sec.NewTokenService(testSecret, "bookhaven.test")
	require.NoError(t, err)

	verifierService, err := sec.NewTokenService("ffffffffffffffffffffffffffffffff", "bookhaven.test")
	require.NoError(t, err)

	token, _, err := issuerService.GenerateAccessToken("user-123", "user@example.com", time.Hour)
	require.NoError(t, err)

	_, err = verifierService.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestNewTokenService_WeakSecret verifies the minimum key length guard.
*/
func TestNewTokenService_WeakSecret(t *testing.T) {
	_, err := sec.NewTokenService("short", "bookhaven.test")
	assert.Error(t, err)
}

/*
TestRole_AtLeast covers the role hierarchy comparison.
*/
func TestRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.Role("").AtLeast(sec.RoleUser))
}
