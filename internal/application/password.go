package application

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidPasswordHash is returned when a stored hash cannot be parsed.
var ErrInvalidPasswordHash = errors.New("invalid password hash format")

type argon2idParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

var defaultArgon2idParams = argon2idParams{
	memory:      64 * 1024,
	iterations:  3,
	parallelism: 2,
	saltLength:  16,
	keyLength:   32,
}

// CreatePasswordHash derives an argon2id hash in PHC string format.
func CreatePasswordHash(password string) (string, error) {
	p := defaultArgon2idParams

	salt := make([]byte, p.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.parallelism, p.keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.iterations, p.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword compares a stored PHC hash with a candidate password.
// Returns ErrInvalidCredentials on mismatch.
func VerifyPassword(hashedPassword, password string) error {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrInvalidPasswordHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return err
	}
	if version != argon2.Version {
		return ErrInvalidPasswordHash
	}

	var p argon2idParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return err
	}
	stored, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return err
	}

	candidate := argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.parallelism, uint32(len(stored)))
	if subtle.ConstantTimeCompare(stored, candidate) == 1 {
		return nil
	}
	return ErrInvalidCredentials
}
