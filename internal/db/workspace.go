package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/felo/header-processor/internal/workspace"
)

// Setting keys for the durable workspace fields
const (
	SettingFromName         = "from_name"
	SettingSubject          = "subject"
	SettingRemoveReturnPath = "remove_return_path"
	SettingPastedText       = "pasted_text"
)

var _ workspace.Persister = (*DB)(nil)

// SaveState stores files, pasted text and settings of s in one transaction
func (db *DB) SaveState(ctx context.Context, s workspace.State) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	uploads := make([]Upload, len(s.Files))
	for i, f := range s.Files {
		uploads[i] = Upload{Name: f.Name, Content: f.Content}
	}
	if err := replaceUploads(ctx, tx, uploads); err != nil {
		return err
	}

	settings := map[string]string{
		SettingFromName:         s.Settings.FromName,
		SettingSubject:          s.Settings.Subject,
		SettingRemoveReturnPath: strconv.FormatBool(s.Settings.RemoveReturnPath),
		SettingPastedText:       s.PastedText,
	}
	for key, value := range settings {
		if err := setSetting(ctx, tx, key, value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadState rebuilds the durable workspace fields. The bool is false when
// nothing has been saved yet.
func (db *DB) LoadState(ctx context.Context) (workspace.State, bool, error) {
	s := workspace.NewState()

	uploads, err := db.ListUploads(ctx)
	if err != nil {
		return s, false, err
	}
	for _, u := range uploads {
		s.Files = append(s.Files, workspace.File{Name: u.Name, Content: u.Content})
	}

	rows, err := db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return s, false, fmt.Errorf("failed to load settings: %w", err)
	}
	defer rows.Close()

	found := len(uploads) > 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return s, false, fmt.Errorf("failed to scan setting: %w", err)
		}
		found = true

		switch key {
		case SettingFromName:
			s.Settings.FromName = value
		case SettingSubject:
			s.Settings.Subject = value
		case SettingRemoveReturnPath:
			if b, err := strconv.ParseBool(value); err == nil {
				s.Settings.RemoveReturnPath = b
			}
		case SettingPastedText:
			s.PastedText = value
		}
	}
	if err := rows.Err(); err != nil {
		return s, false, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return s, found, nil
}

func setSetting(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
