package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

type userRepoStub struct {
	users  map[string]User
	hashes map[string]string

	createErr error
	updateErr error
	listErr   error
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]User), hashes: make(map[string]string)}
}

func (r *userRepoStub) CreateUser(_ context.Context, user User, passwordHash string) (User, error) {
	if r.createErr != nil {
		return User{}, r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return User{}, persistence.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	r.hashes[user.ID] = passwordHash
	return user, nil
}

func (r *userRepoStub) GetUser(_ context.Context, id string) (User, error) {
	user, ok := r.users[id]
	if !ok {
		return User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (r *userRepoStub) UpdateUser(_ context.Context, user User, passwordHash string) (User, error) {
	if r.updateErr != nil {
		return User{}, r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return User{}, persistence.ErrNotFound
	}
	r.users[user.ID] = user
	if passwordHash != "" {
		r.hashes[user.ID] = passwordHash
	}
	return user, nil
}

func (r *userRepoStub) ListUsers(_ context.Context) ([]User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *userRepoStub) DeleteUser(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.users, id)
	delete(r.hashes, id)
	return nil
}

func staticHasher(password string) (string, error) {
	return "hash:" + password, nil
}

func TestUserService_CreateUser(t *testing.T) {
	t.Parallel()

	t.Run("persists a user with a hashed password", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepoStub()
		now := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
		svc := NewUserService(repo, staticHasher, sequentialIDs("user"), func() time.Time { return now })

		created, err := svc.CreateUser(context.Background(), adminPrincipal, UserInput{
			Email:       "Aluno@Example.com",
			DisplayName: " Aluna Silva ",
			Password:    "segredo123",
		})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if created.Email != "aluno@example.com" {
			t.Fatalf("expected lowercased email, got %q", created.Email)
		}
		if created.DisplayName != "Aluna Silva" {
			t.Fatalf("expected trimmed display name, got %q", created.DisplayName)
		}
		if repo.hashes[created.ID] != "hash:segredo123" {
			t.Fatalf("expected stored hash, got %q", repo.hashes[created.ID])
		}
	})

	t.Run("rejects non-admin principals", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepoStub(), staticHasher, nil, nil)

		_, err := svc.CreateUser(context.Background(), Principal{UserID: "user-1"}, UserInput{
			Email: "x@example.com", DisplayName: "X", Password: "segredo123",
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepoStub(), staticHasher, nil, nil)

		_, err := svc.CreateUser(context.Background(), adminPrincipal, UserInput{
			Email:       "not-an-email",
			DisplayName: "",
			Password:    "short",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"display_name", "email", "password"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("maps duplicate email to a field error", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepoStub()
		svc := NewUserService(repo, staticHasher, sequentialIDs("user"), nil)

		input := UserInput{Email: "aluno@example.com", DisplayName: "Aluna", Password: "segredo123"}
		if _, err := svc.CreateUser(context.Background(), adminPrincipal, input); err != nil {
			t.Fatalf("first CreateUser failed: %v", err)
		}

		_, err := svc.CreateUser(context.Background(), adminPrincipal, input)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.FieldErrors["email"] != "email is already registered" {
			t.Fatalf("expected duplicate email error, got %v", vErr.FieldErrors)
		}
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Parallel()

	t.Run("keeps the stored hash when password is blank", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepoStub()
		repo.users["u1"] = User{ID: "u1", Email: "aluno@example.com", DisplayName: "Aluna"}
		repo.hashes["u1"] = "hash:original"
		svc := NewUserService(repo, staticHasher, nil, nil)

		updated, err := svc.UpdateUser(context.Background(), adminPrincipal, "u1", UserInput{DisplayName: "Aluna Souza"})
		if err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		if updated.DisplayName != "Aluna Souza" {
			t.Fatalf("expected updated name, got %q", updated.DisplayName)
		}
		if repo.hashes["u1"] != "hash:original" {
			t.Fatalf("expected original hash preserved, got %q", repo.hashes["u1"])
		}
	})

	t.Run("rotates the hash when a new password is provided", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepoStub()
		repo.users["u1"] = User{ID: "u1", Email: "aluno@example.com", DisplayName: "Aluna"}
		repo.hashes["u1"] = "hash:original"
		svc := NewUserService(repo, staticHasher, nil, nil)

		if _, err := svc.UpdateUser(context.Background(), adminPrincipal, "u1", UserInput{Password: "novasenha1"}); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		if repo.hashes["u1"] != "hash:novasenha1" {
			t.Fatalf("expected rotated hash, got %q", repo.hashes["u1"])
		}
	})

	t.Run("allows self updates but not privilege escalation", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepoStub()
		repo.users["u1"] = User{ID: "u1", Email: "aluno@example.com", DisplayName: "Aluna"}
		svc := NewUserService(repo, staticHasher, nil, nil)

		updated, err := svc.UpdateUser(context.Background(), Principal{UserID: "u1"}, "u1", UserInput{DisplayName: "Nova", IsAdmin: true})
		if err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		if updated.IsAdmin {
			t.Fatal("expected IsAdmin unchanged for non-admin caller")
		}
	})

	t.Run("rejects updates to other users by non-admins", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepoStub(), staticHasher, nil, nil)

		_, err := svc.UpdateUser(context.Background(), Principal{UserID: "u2"}, "u1", UserInput{DisplayName: "Nova"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()

	t.Run("orders users by display name", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepoStub()
		repo.users["u1"] = User{ID: "u1", DisplayName: "zeca"}
		repo.users["u2"] = User{ID: "u2", DisplayName: "Ana"}
		svc := NewUserService(repo, staticHasher, nil, nil)

		users, err := svc.ListUsers(context.Background(), adminPrincipal)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 || users[0].DisplayName != "Ana" || users[1].DisplayName != "zeca" {
			t.Fatalf("unexpected order %#v", users)
		}
	})

	t.Run("rejects non-admin principals", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepoStub(), staticHasher, nil, nil)

		if _, err := svc.ListUsers(context.Background(), Principal{UserID: "u1"}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("removes an existing user", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepoStub()
		repo.users["u1"] = User{ID: "u1"}
		svc := NewUserService(repo, staticHasher, nil, nil)

		if err := svc.DeleteUser(context.Background(), adminPrincipal, "u1"); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		if len(repo.users) != 0 {
			t.Fatalf("expected user removed, got %d", len(repo.users))
		}
	})

	t.Run("maps missing user to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepoStub(), staticHasher, nil, nil)

		if err := svc.DeleteUser(context.Background(), adminPrincipal, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
