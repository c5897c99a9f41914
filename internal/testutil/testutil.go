// Package testutil holds helpers for integration tests that run
// against real Postgres and Redis instances.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradepost/tradepost/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// Integration tests share one database, so they serialize on a global
// advisory lock before touching the schema.
const advisoryLockID int64 = 771177

// AcquireDBLock grabs the advisory lock and returns its release func.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates every table. Products go down before
// users because of the creator foreign key, and come back up after.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	steps := []string{
		"000002_create_products.down.sql",
		"000001_create_users.down.sql",
		"000001_create_users.up.sql",
		"000002_create_products.up.sql",
	}

	for _, name := range steps {
		sql, err := os.ReadFile(filepath.Join(root, "migrations", name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}

// ProjectRoot resolves the repository root from this file's location.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", "..")), nil
}

// NewTestUser builds a plain-role user with unique id and email.
func NewTestUser(t testing.TB, emailPrefix string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	id := UniqueID("user")
	return &model.User{
		ID:           id,
		FirstName:    "Test",
		LastName:     "User",
		Email:        fmt.Sprintf("%s-%d@example.com", emailPrefix, now.UnixNano()),
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$dGVzdHNhbHQ$dGVzdGhhc2g",
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UniqueID returns a prefix-tagged id unique within a test run.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
