package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Upload is a stored uploaded message
type Upload struct {
	ID       int64
	Position int
	Name     string
	Content  string
	Size     int64
}

// ReplaceUploads swaps the stored uploads for the given list in one transaction
func (db *DB) ReplaceUploads(ctx context.Context, uploads []Upload) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceUploads(ctx, tx, uploads); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListUploads returns stored uploads in upload order
func (db *DB) ListUploads(ctx context.Context) ([]Upload, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, position, name, content, size
		FROM uploads
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.ID, &u.Position, &u.Name, &u.Content, &u.Size); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uploads: %w", err)
	}

	return uploads, nil
}

// CountUploads returns the number of stored uploads
func (db *DB) CountUploads(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM uploads").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}
	return count, nil
}

func replaceUploads(ctx context.Context, tx *sql.Tx, uploads []Upload) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM uploads"); err != nil {
		return fmt.Errorf("failed to clear uploads: %w", err)
	}
	if len(uploads) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO uploads (position, name, content, size)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, u := range uploads {
		if _, err := stmt.ExecContext(ctx, i, u.Name, u.Content, int64(len(u.Content))); err != nil {
			return fmt.Errorf("failed to insert upload %s: %w", u.Name, err)
		}
	}
	return nil
}
