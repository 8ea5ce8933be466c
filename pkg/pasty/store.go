package pasty

import (
	"context"
	"database/sql"
	"fmt"
)

// SetupSchema creates the pasties table. It is idempotent. The id column is
// intentionally not unique; position keeps insertion order.
func SetupSchema(db *sql.DB) error {

	const schemaPasties = `
CREATE TABLE IF NOT EXISTS pasties (
    position INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT ''
);
`

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaPasties); err != nil {
		return fmt.Errorf("could not create schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Store is a SQLite-backed Source. SetupSchema must have been called on db.
type Store struct {
	db         *sql.DB
	stmtInsert *sql.Stmt
	stmtList   *sql.Stmt
	stmtCount  *sql.Stmt
	stmtClear  *sql.Stmt
}

// NewStore prepares the statements used by the store.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}

	prepare := func(query string) (*sql.Stmt, error) {
		stmt, err := db.Prepare(query)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare %q: %w", query, err)
		}
		return stmt, nil
	}

	var err error
	if s.stmtInsert, err = prepare("INSERT INTO pasties (id, title, content) VALUES (?, ?, ?)"); err != nil {
		s.Close()
		return nil, err
	}
	if s.stmtList, err = prepare("SELECT id, title, content FROM pasties ORDER BY position"); err != nil {
		s.Close()
		return nil, err
	}
	if s.stmtCount, err = prepare("SELECT COUNT(*) FROM pasties"); err != nil {
		s.Close()
		return nil, err
	}
	if s.stmtClear, err = prepare("DELETE FROM pasties"); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the prepared statements. The database stays open.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{s.stmtInsert, s.stmtList, s.stmtCount, s.stmtClear} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// Insert appends p after every existing pasty.
func (s *Store) Insert(ctx context.Context, p Pasty) error {
	if _, err := s.stmtInsert.ExecContext(ctx, p.ID, p.Title, p.Content); err != nil {
		return fmt.Errorf("failed to insert pasty: %w", err)
	}
	return nil
}

// InsertAll appends pasties in order within a single transaction.
func (s *Store) InsertAll(ctx context.Context, pasties []Pasty) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	stmt := tx.StmtContext(ctx, s.stmtInsert)
	for _, p := range pasties {
		if _, err = stmt.ExecContext(ctx, p.ID, p.Title, p.Content); err != nil {
			return fmt.Errorf("failed to insert pasty %q: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Replace swaps the stored pasties for pasties in a single transaction.
func (s *Store) Replace(ctx context.Context, pasties []Pasty) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.StmtContext(ctx, s.stmtClear).ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to clear pasties: %w", err)
	}
	stmt := tx.StmtContext(ctx, s.stmtInsert)
	for _, p := range pasties {
		if _, err = stmt.ExecContext(ctx, p.ID, p.Title, p.Content); err != nil {
			return fmt.Errorf("failed to insert pasty %q: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// List returns every pasty in insertion order.
func (s *Store) List(ctx context.Context) ([]Pasty, error) {
	rows, err := s.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	pasties := []Pasty{}
	for rows.Next() {
		var p Pasty
		if err = rows.Scan(&p.ID, &p.Title, &p.Content); err != nil {
			return nil, err
		}
		pasties = append(pasties, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return pasties, nil
}

// Count returns the number of stored pasties.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.stmtCount.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Clear removes every stored pasty.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.stmtClear.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to clear pasties: %w", err)
	}
	return nil
}
