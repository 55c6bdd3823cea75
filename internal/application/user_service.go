package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, user User, passwordHash string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// UserService manages user accounts for administrators.
type UserService struct {
	users        UserRepository
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, hashPassword PasswordHasher, idGenerator func() string, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, hashPassword, idGenerator, now, nil)
}

// NewUserServiceWithLogger wires dependencies plus a base logger.
func NewUserServiceWithLogger(users UserRepository, hashPassword PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if hashPassword == nil {
		hashPassword = CreatePasswordHash
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:        users,
		hashPassword: hashPassword,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// CreateUser validates input, hashes the password, and persists a new user.
func (s *UserService) CreateUser(ctx context.Context, principal Principal, input UserInput) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	normalized := normalizeUserInput(input)
	if vErr := validateUserInput(normalized, true); vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := s.hashPassword(normalized.Password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:          s.idGenerator(),
		DisplayName: normalized.DisplayName,
		Email:       normalized.Email,
		IsAdmin:     normalized.IsAdmin,
		CreatedAt:   s.now(),
	}
	user.UpdatedAt = user.CreatedAt

	persisted, err := s.users.CreateUser(ctx, user, hash)
	if err != nil {
		return User{}, mapUserRepoError(err)
	}

	serviceLogger(ctx, s.logger, "user", "create", "user_id", persisted.ID).InfoContext(ctx, "user created")
	return persisted, nil
}

// UpdateUser applies field updates and optionally rotates the password.
func (s *UserService) UpdateUser(ctx context.Context, principal Principal, id string, input UserInput) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin && principal.UserID != id {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	existing, err := s.users.GetUser(ctx, id)
	if err != nil {
		return User{}, mapUserRepoError(err)
	}

	normalized := normalizeUserInput(input)
	if vErr := validateUserInput(normalized, false); vErr.HasErrors() {
		return User{}, vErr
	}

	updated := existing
	if normalized.DisplayName != "" {
		updated.DisplayName = normalized.DisplayName
	}
	if normalized.Email != "" {
		updated.Email = normalized.Email
	}
	if principal.IsAdmin {
		updated.IsAdmin = normalized.IsAdmin
	}
	updated.UpdatedAt = s.now()

	hash := ""
	if normalized.Password != "" {
		hash, err = s.hashPassword(normalized.Password)
		if err != nil {
			return User{}, err
		}
	}

	persisted, err := s.users.UpdateUser(ctx, updated, hash)
	if err != nil {
		return User{}, mapUserRepoError(err)
	}
	return persisted, nil
}

// GetUser returns a single user.
func (s *UserService) GetUser(ctx context.Context, id string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return User{}, mapUserRepoError(err)
	}
	return user, nil
}

// ListUsers returns all users ordered by name.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	if s.users == nil {
		return nil, nil
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, mapUserRepoError(err)
	}

	out := make([]User, len(users))
	copy(out, users)
	sort.Slice(out, func(i, j int) bool {
		if strings.EqualFold(out[i].DisplayName, out[j].DisplayName) {
			return out[i].ID < out[j].ID
		}
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out, nil
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}

	if err := s.users.DeleteUser(ctx, id); err != nil {
		return mapUserRepoError(err)
	}
	return nil
}

func normalizeUserInput(input UserInput) UserInput {
	return UserInput{
		Email:       strings.TrimSpace(strings.ToLower(input.Email)),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Password:    input.Password,
		IsAdmin:     input.IsAdmin,
	}
}

func validateUserInput(input UserInput, creating bool) *ValidationError {
	vErr := &ValidationError{}

	if creating && input.DisplayName == "" {
		vErr.add("display_name", "display name is required")
	}
	if creating && input.Email == "" {
		vErr.add("email", "email is required")
	}
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			vErr.add("email", "must be a valid email address")
		}
	}
	if creating && input.Password == "" {
		vErr.add("password", "password is required")
	}
	if input.Password != "" && len(input.Password) < 8 {
		vErr.add("password", "must be at least 8 characters")
	}

	return vErr
}

func mapUserRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		vErr := &ValidationError{}
		vErr.add("email", "email is already registered")
		return vErr
	}
	return err
}
