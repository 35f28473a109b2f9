// Package config loads runtime configuration from environment variables.
// Required settings are enforced at startup: a missing value is a fatal
// error, never a silent default, so a misconfigured process dies before it
// serves a request.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds every runtime setting the server needs. The JWT fields
// feed the token authority's trust configuration and are read exactly
// once at startup; they are never reloaded.
type Config struct {
	Env         string // application environment (dev/test/prod)
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host
	DBPort      string // database port
	DBName      string // database name
	JWTSecret   string // symmetric key used to sign session tokens
	JWTIssuer   string // iss claim stamped into and required of tokens
	JWTAudience string // aud claim stamped into and required of tokens
	BcryptCost  int    // bcrypt cost for password hashing
}

// Load reads the configuration from the environment. Missing required
// variables terminate the process with a fatal log message.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTSecret:   must("JWT_SECRET"),
		JWTIssuer:   must("JWT_ISSUER"),
		JWTAudience: must("JWT_AUDIENCE"),
		BcryptCost:  mustInt("BCRYPT_COST"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
