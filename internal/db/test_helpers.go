package db

import (
	"fmt"
	"testing"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	if err := db.Close(); err != nil {
		t.Errorf("Failed to close test database: %v", err)
	}
}

// CreateTestUpload creates an upload holding a minimal message
func CreateTestUpload(name, subject string) Upload {
	return Upload{
		Name:    name,
		Content: fmt.Sprintf("From: Test <test@example.com>\nSubject: %s\nMessage-ID: <%s@test.com>\n", subject, name),
	}
}
