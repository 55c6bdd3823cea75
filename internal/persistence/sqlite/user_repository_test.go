package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

func newTestUser(id, email string) persistence.User {
	return persistence.User{
		ID:           id,
		Email:        email,
		DisplayName:  "Aluna Silva",
		PasswordHash: "hashed_password",
		CreatedAt:    testTime(),
		UpdatedAt:    testTime(),
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(newTestPool(t))
	ctx := context.Background()

	if err := repo.CreateUser(ctx, newTestUser("user1", "Aluna@Example.com")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUser(ctx, "user1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if retrieved.Email != "aluna@example.com" {
		t.Errorf("Expected lowercased email, got '%s'", retrieved.Email)
	}
	if retrieved.DisplayName != "Aluna Silva" {
		t.Errorf("Expected display name 'Aluna Silva', got '%s'", retrieved.DisplayName)
	}
	if retrieved.PasswordHash != "hashed_password" {
		t.Errorf("Expected stored hash, got '%s'", retrieved.PasswordHash)
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestPool(t))
	ctx := context.Background()

	if err := repo.CreateUser(ctx, newTestUser("user1", "aluna@example.com")); err != nil {
		t.Fatalf("First CreateUser failed: %v", err)
	}

	err := repo.CreateUser(ctx, newTestUser("user2", "Aluna@Example.com"))
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	repo := NewUserRepository(newTestPool(t))
	ctx := context.Background()

	if err := repo.CreateUser(ctx, newTestUser("user1", "aluna@example.com")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByEmail(ctx, "ALUNA@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if retrieved.ID != "user1" {
		t.Errorf("Expected ID 'user1', got '%s'", retrieved.ID)
	}

	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(newTestPool(t))
	ctx := context.Background()

	user := newTestUser("user1", "aluna@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user.DisplayName = "Aluna Souza"
	user.PasswordHash = ""
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	retrieved, err := repo.GetUser(ctx, "user1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if retrieved.DisplayName != "Aluna Souza" {
		t.Errorf("Expected updated display name, got '%s'", retrieved.DisplayName)
	}
	// Blank hash on update must keep the stored one.
	if retrieved.PasswordHash != "hashed_password" {
		t.Errorf("Expected preserved hash, got '%s'", retrieved.PasswordHash)
	}

	user.PasswordHash = "new_hash"
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	retrieved, err = repo.GetUser(ctx, "user1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if retrieved.PasswordHash != "new_hash" {
		t.Errorf("Expected rotated hash, got '%s'", retrieved.PasswordHash)
	}
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestPool(t))

	err := repo.UpdateUser(context.Background(), newTestUser("missing", "x@example.com"))
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_List_OrderedByCreation(t *testing.T) {
	repo := NewUserRepository(newTestPool(t))
	ctx := context.Background()

	second := newTestUser("user2", "b@example.com")
	second.CreatedAt = testTime().Add(time.Hour)
	first := newTestUser("user1", "a@example.com")

	if err := repo.CreateUser(ctx, second); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}
	if users[0].ID != "user1" || users[1].ID != "user2" {
		t.Errorf("Expected creation order, got %s / %s", users[0].ID, users[1].ID)
	}
}

func TestUserRepository_Delete_CascadesSessions(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	sessions := NewSessionRepository(pool)
	ctx := context.Background()

	if err := users.CreateUser(ctx, newTestUser("user1", "aluna@example.com")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := sessions.CreateSession(ctx, newTestSession("s1", "user1", "tok1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := users.DeleteUser(ctx, "user1"); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if _, err := users.GetUser(ctx, "user1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := sessions.GetSession(ctx, "tok1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected session removed by cascade, got %v", err)
	}

	if err := users.DeleteUser(ctx, "user1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
	}
}
