// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/bookhaven/bookhaven/internal/identity"
	"github.com/bookhaven/bookhaven/internal/platform/database/schema"
	"github.com/bookhaven/bookhaven/internal/platform/dberr"
)

// # Profile Records
//
// Profile rows are provisioned by the account-insert trigger, never by this
// code. These operations only read and amend existing rows.

/*
ProfileByID returns the profile record for an account id.

Returns:
  - *identity.Profile: The profile row
  - error: NOT_FOUND while the trigger has not fired yet, or storage failures
*/
func (service *Service) ProfileByID(ctx context.Context, userID string) (*identity.Profile, error) {
	sql := fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1",
		schema.UserProfile.ID,
		schema.UserProfile.Username,
		schema.UserProfile.Role,
		schema.UserProfile.CreatedAt,
		schema.UserProfile.UpdatedAt,
		schema.UserProfile.Table,
		schema.UserProfile.ID,
	)

	var profile identity.Profile
	err := service.pool.QueryRow(ctx, sql, userID).Scan(
		&profile.ID,
		&profile.Username,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return &profile, nil
}

/*
ProfileByUsername returns the profile that has claimed the given username.

Returns:
  - *identity.Profile: The profile row
  - error: NOT_FOUND when the username is unclaimed, or storage failures
*/
func (service *Service) ProfileByUsername(ctx context.Context, username string) (*identity.Profile, error) {
	sql := fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1",
		schema.UserProfile.ID,
		schema.UserProfile.Username,
		schema.UserProfile.Role,
		schema.UserProfile.CreatedAt,
		schema.UserProfile.UpdatedAt,
		schema.UserProfile.Table,
		schema.UserProfile.Username,
	)

	var profile identity.Profile
	err := service.pool.QueryRow(ctx, sql, username).Scan(
		&profile.ID,
		&profile.Username,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return &profile, nil
}

/*
SetProfileUsername claims a username on a provisioned profile.

Returns:
  - error: CONFLICT when the username is taken, NOT_FOUND when the profile
    does not exist yet, or storage failures
*/
func (service *Service) SetProfileUsername(ctx context.Context, userID, username string) error {
	sql := fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3",
		schema.UserProfile.Table,
		schema.UserProfile.Username,
		schema.UserProfile.UpdatedAt,
		schema.UserProfile.ID,
	)

	tag, err := service.pool.Exec(ctx, sql, username, time.Now(), userID)
	if err != nil {
		return dberr.Wrap(err, "Username is already taken")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
DumpProfiles returns every profile record. Admin inspection only.

Returns:
  - []identity.Profile: The complete table contents
  - error: Database execution failures
*/
func (service *Service) DumpProfiles(ctx context.Context) ([]identity.Profile, error) {
	sql := fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s ORDER BY %s DESC",
		schema.UserProfile.ID,
		schema.UserProfile.Username,
		schema.UserProfile.Role,
		schema.UserProfile.CreatedAt,
		schema.UserProfile.UpdatedAt,
		schema.UserProfile.Table,
		schema.UserProfile.CreatedAt,
	)

	rows, err := service.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to dump profiles: %w", err)
	}
	defer rows.Close()

	profiles := []identity.Profile{}
	for rows.Next() {
		var profile identity.Profile
		err := rows.Scan(
			&profile.ID,
			&profile.Username,
			&profile.Role,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: profile rows iteration failed: %w", err)
	}
	return profiles, nil
}
