package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage driver names accepted by RESERVE_STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config captures environment driven configuration values for the reservation service.
type Config struct {
	HTTPPort              int
	StorageDriver         string
	SQLiteDSN             string
	PostgresDSN           string
	SessionSecret         string
	SessionTTL            time.Duration
	AcceptRequiresPending bool
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting localized error messages for missing entries.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		StorageDriver: DriverSQLite,
		SQLiteDSN:     "file:reserve.db?_foreign_keys=on",
		SessionTTL:    24 * time.Hour,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("RESERVE_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "RESERVE_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if driver := strings.TrimSpace(strings.ToLower(os.Getenv("RESERVE_STORAGE_DRIVER"))); driver != "" {
		switch driver {
		case DriverSQLite, DriverPostgres:
			cfg.StorageDriver = driver
		default:
			invalid = append(invalid, "RESERVE_STORAGE_DRIVER")
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("RESERVE_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if dsn := strings.TrimSpace(os.Getenv("RESERVE_POSTGRES_DSN")); dsn != "" {
		cfg.PostgresDSN = dsn
	}
	if cfg.StorageDriver == DriverPostgres && cfg.PostgresDSN == "" {
		missing = append(missing, "RESERVE_POSTGRES_DSN")
	}

	if secret := strings.TrimSpace(os.Getenv("RESERVE_SESSION_SECRET")); secret == "" {
		missing = append(missing, "RESERVE_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("RESERVE_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "RESERVE_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if acceptValue := strings.TrimSpace(os.Getenv("RESERVE_ACCEPT_REQUIRES_PENDING")); acceptValue != "" {
		accept, err := strconv.ParseBool(acceptValue)
		if err != nil {
			invalid = append(invalid, "RESERVE_ACCEPT_REQUIRES_PENDING")
		} else {
			cfg.AcceptRequiresPending = accept
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente com valores inválidos: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
