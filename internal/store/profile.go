package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hallboard/hallboard/internal/model"
)

// GetProfile returns the creator profile for a discord handle.
func (s *Store) GetProfile(ctx context.Context, discord string) (*model.Profile, error) {
	var p model.Profile
	err := s.db.GetContext(ctx, &p,
		s.db.Rebind("SELECT discord, display_name, avatar, x_handle FROM creators WHERE discord = ?"), discord)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile inserts or overwrites the creator profile keyed by discord.
// All three display fields are replaced unconditionally with the new values,
// empty strings becoming NULL. No-op when discord is empty. Repeating the
// same call leaves the row unchanged.
func (s *Store) UpsertProfile(ctx context.Context, discord, displayName, avatar, xHandle string) error {
	return s.upsertCreator(ctx, s.db, discord, displayName, avatar, xHandle)
}

// upsertCreator is the shared upsert used both standalone and inside entry
// write transactions.
func (s *Store) upsertCreator(ctx context.Context, ext sqlx.ExtContext, discord, displayName, avatar, xHandle string) error {
	if discord == "" {
		return nil
	}

	var q string
	if s.driver == DriverMySQL {
		q = `INSERT INTO creators (discord, display_name, avatar, x_handle)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				display_name = VALUES(display_name),
				avatar = VALUES(avatar),
				x_handle = VALUES(x_handle)`
	} else {
		q = `INSERT INTO creators (discord, display_name, avatar, x_handle)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (discord) DO UPDATE SET
				display_name = excluded.display_name,
				avatar = excluded.avatar,
				x_handle = excluded.x_handle`
	}

	_, err := ext.ExecContext(ctx, ext.Rebind(q),
		discord, nullIfEmpty(displayName), nullIfEmpty(avatar), nullIfEmpty(xHandle))
	if err != nil {
		return fmt.Errorf("upsert creator profile: %w", err)
	}
	return nil
}
