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

// ListWBC returns World Build Contest entries matching the filter, ordered
// by year, then month, then creation order, all descending.
func (s *Store) ListWBC(ctx context.Context, f model.WBCFilter) ([]model.WBCEntry, error) {
	q := "SELECT * FROM wbc_entries"
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
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY year DESC, month DESC, created_at DESC, id DESC"

	entries := []model.WBCEntry{}
	if err := s.db.SelectContext(ctx, &entries, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list wbc entries: %w", err)
	}
	return entries, nil
}

// GetWBC returns a single World Build Contest entry by id.
func (s *Store) GetWBC(ctx context.Context, id int64) (*model.WBCEntry, error) {
	var e model.WBCEntry
	err := s.db.GetContext(ctx, &e,
		s.db.Rebind("SELECT * FROM wbc_entries WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get wbc entry: %w", err)
	}
	return &e, nil
}

// CreateWBC inserts a new World Build Contest entry, syncing the creator
// profile in the same transaction when the entry carries a discord handle.
func (s *Store) CreateWBC(ctx context.Context, e *model.WBCEntry) (*model.WBCEntry, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create wbc: %w", err)
	}
	defer tx.Rollback()

	e.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO wbc_entries
		(name, month, year, date_range, link, discord, x_handle, avatar, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := s.insertID(ctx, tx, q,
		e.Name, e.Month, e.Year, e.DateRange, e.Link,
		e.Discord, e.XHandle, e.Avatar, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert wbc entry: %w", err)
	}

	if err := s.upsertCreator(ctx, tx, e.Discord, e.Name, e.Avatar, e.XHandle); err != nil {
		return nil, err
	}

	var out model.WBCEntry
	if err := tx.GetContext(ctx, &out, tx.Rebind("SELECT * FROM wbc_entries WHERE id = ?"), id); err != nil {
		return nil, fmt.Errorf("read back wbc entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create wbc: %w", err)
	}
	return &out, nil
}

// ReplaceWBC overwrites all mutable fields of the entry with the given id.
// Returns ErrNotFound when no row has that id.
func (s *Store) ReplaceWBC(ctx context.Context, id int64, e *model.WBCEntry) (*model.WBCEntry, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace wbc: %w", err)
	}
	defer tx.Rollback()

	const q = `UPDATE wbc_entries
		SET name = ?, month = ?, year = ?, date_range = ?, link = ?,
			discord = ?, x_handle = ?, avatar = ?
		WHERE id = ?`

	result, err := tx.ExecContext(ctx, tx.Rebind(q),
		e.Name, e.Month, e.Year, e.DateRange, e.Link,
		e.Discord, e.XHandle, e.Avatar, id)
	if err != nil {
		return nil, fmt.Errorf("update wbc entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update wbc entry rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	if err := s.upsertCreator(ctx, tx, e.Discord, e.Name, e.Avatar, e.XHandle); err != nil {
		return nil, err
	}

	var out model.WBCEntry
	if err := tx.GetContext(ctx, &out, tx.Rebind("SELECT * FROM wbc_entries WHERE id = ?"), id); err != nil {
		return nil, fmt.Errorf("read back wbc entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace wbc: %w", err)
	}
	return &out, nil
}

// DeleteWBC removes an entry by id. Returns ErrNotFound when no row has
// that id.
func (s *Store) DeleteWBC(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM wbc_entries WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete wbc entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete wbc entry rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
