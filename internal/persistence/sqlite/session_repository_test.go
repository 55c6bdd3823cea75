package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

func newTestSession(id, userID, token string) persistence.Session {
	return persistence.Session{
		ID:        id,
		UserID:    userID,
		Token:     token,
		ExpiresAt: testTime().Add(time.Hour),
		CreatedAt: testTime(),
	}
}

func setupSessionRepository(t *testing.T) *SessionRepository {
	t.Helper()

	pool := newTestPool(t)
	users := NewUserRepository(pool)
	if err := users.CreateUser(context.Background(), newTestUser("user1", "aluna@example.com")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return NewSessionRepository(pool)
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo := setupSessionRepository(t)
	ctx := context.Background()

	created, err := repo.CreateSession(ctx, newTestSession("s1", "user1", "tok1"))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if created.RevokedAt != nil {
		t.Errorf("Expected fresh session without revocation, got %v", created.RevokedAt)
	}

	retrieved, err := repo.GetSession(ctx, "tok1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if retrieved.UserID != "user1" {
		t.Errorf("Expected user 'user1', got '%s'", retrieved.UserID)
	}
	if !retrieved.ExpiresAt.Equal(testTime().Add(time.Hour)) {
		t.Errorf("Expected expires_at roundtrip, got %v", retrieved.ExpiresAt)
	}
	if retrieved.RevokedAt != nil {
		t.Errorf("Expected nil revoked_at, got %v", retrieved.RevokedAt)
	}
}

func TestSessionRepository_Get_NotFound(t *testing.T) {
	repo := setupSessionRepository(t)

	if _, err := repo.GetSession(context.Background(), "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_Create_RejectsUnknownUser(t *testing.T) {
	repo := setupSessionRepository(t)

	_, err := repo.CreateSession(context.Background(), newTestSession("s1", "ghost", "tok1"))
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("Expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestSessionRepository_Revoke(t *testing.T) {
	repo := setupSessionRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateSession(ctx, newTestSession("s1", "user1", "tok1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	revokedAt := testTime().Add(30 * time.Minute)
	if err := repo.RevokeSession(ctx, "tok1", revokedAt); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}

	retrieved, err := repo.GetSession(ctx, "tok1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if retrieved.RevokedAt == nil || !retrieved.RevokedAt.Equal(revokedAt) {
		t.Errorf("Expected revoked_at %v, got %v", revokedAt, retrieved.RevokedAt)
	}

	// Already revoked sessions cannot be revoked again.
	if err := repo.RevokeSession(ctx, "tok1", revokedAt); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second revoke, got %v", err)
	}
	if err := repo.RevokeSession(ctx, "missing", revokedAt); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown token, got %v", err)
	}
}

func TestSessionRepository_DeleteExpiredSessions(t *testing.T) {
	repo := setupSessionRepository(t)
	ctx := context.Background()

	expired := newTestSession("s1", "user1", "tok-expired")
	expired.ExpiresAt = testTime().Add(-time.Hour)
	active := newTestSession("s2", "user1", "tok-active")

	if _, err := repo.CreateSession(ctx, expired); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := repo.CreateSession(ctx, active); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := repo.DeleteExpiredSessions(ctx, testTime()); err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}

	if _, err := repo.GetSession(ctx, "tok-expired"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected expired session removed, got %v", err)
	}
	if _, err := repo.GetSession(ctx, "tok-active"); err != nil {
		t.Fatalf("Expected active session kept, got %v", err)
	}
}
