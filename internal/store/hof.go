package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hallboard/hallboard/internal/model"
)

// ListHoF returns Hall of Fame entries matching the filter, newest first.
// An empty filter returns every entry.
func (s *Store) ListHoF(ctx context.Context, f model.HoFFilter) ([]model.HoFEntry, error) {
	q := "SELECT * FROM hof_entries"
	var conds []string
	var args []interface{}

	if f.Month != "" {
		conds = append(conds, "month = ?")
		args = append(args, f.Month)
	}
	if f.Year != "" {
		conds = append(conds, "year = ?")
		args = append(args, f.Year)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"

	entries := []model.HoFEntry{}
	if err := s.db.SelectContext(ctx, &entries, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list hof entries: %w", err)
	}
	return entries, nil
}

// GetHoF returns a single Hall of Fame entry by id.
func (s *Store) GetHoF(ctx context.Context, id int64) (*model.HoFEntry, error) {
	var e model.HoFEntry
	err := s.db.GetContext(ctx, &e,
		s.db.Rebind("SELECT * FROM hof_entries WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get hof entry: %w", err)
	}
	return &e, nil
}

// CreateHoF inserts a new Hall of Fame entry and, when the entry carries a
// discord handle, syncs the creator profile. Both writes and the read-back
// of the persisted row happen in one transaction: if the profile sync fails,
// the entry write rolls back with it.
func (s *Store) CreateHoF(ctx context.Context, e *model.HoFEntry) (*model.HoFEntry, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create hof: %w", err)
	}
	defer tx.Rollback()

	e.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO hof_entries
		(name, category, month, year, link, avatar, discord, x_handle, placement, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := s.insertID(ctx, tx, q,
		e.Name, e.Category, e.Month, e.Year, e.Link, e.Avatar,
		e.Discord, e.XHandle, e.Placement, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert hof entry: %w", err)
	}

	if err := s.upsertCreator(ctx, tx, e.Discord, e.Name, e.Avatar, e.XHandle); err != nil {
		return nil, err
	}

	var out model.HoFEntry
	if err := tx.GetContext(ctx, &out, tx.Rebind("SELECT * FROM hof_entries WHERE id = ?"), id); err != nil {
		return nil, fmt.Errorf("read back hof entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create hof: %w", err)
	}
	return &out, nil
}

// ReplaceHoF overwrites all mutable fields of the entry with the given id,
// syncing the creator profile in the same transaction. Returns ErrNotFound
// when no row has that id.
func (s *Store) ReplaceHoF(ctx context.Context, id int64, e *model.HoFEntry) (*model.HoFEntry, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace hof: %w", err)
	}
	defer tx.Rollback()

	const q = `UPDATE hof_entries
		SET name = ?, category = ?, month = ?, year = ?, link = ?,
			avatar = ?, discord = ?, x_handle = ?, placement = ?
		WHERE id = ?`

	result, err := tx.ExecContext(ctx, tx.Rebind(q),
		e.Name, e.Category, e.Month, e.Year, e.Link,
		e.Avatar, e.Discord, e.XHandle, e.Placement, id)
	if err != nil {
		return nil, fmt.Errorf("update hof entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update hof entry rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	if err := s.upsertCreator(ctx, tx, e.Discord, e.Name, e.Avatar, e.XHandle); err != nil {
		return nil, err
	}

	var out model.HoFEntry
	if err := tx.GetContext(ctx, &out, tx.Rebind("SELECT * FROM hof_entries WHERE id = ?"), id); err != nil {
		return nil, fmt.Errorf("read back hof entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace hof: %w", err)
	}
	return &out, nil
}

// PatchHoFPlacement updates only the placement field of an entry. A nil
// placement clears it. Returns ErrNotFound when no row has that id.
func (s *Store) PatchHoFPlacement(ctx context.Context, id int64, placement *int) (*model.HoFEntry, error) {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE hof_entries SET placement = ? WHERE id = ?"), placement, id)
	if err != nil {
		return nil, fmt.Errorf("update hof placement: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update hof placement rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetHoF(ctx, id)
}

// DeleteHoF removes an entry by id. Deletion is physical. Returns
// ErrNotFound when no row has that id.
func (s *Store) DeleteHoF(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM hof_entries WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete hof entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete hof entry rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
