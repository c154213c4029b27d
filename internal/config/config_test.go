package config

import "testing"

// The server only verifies staff tokens; minting lives in cmd/mintoken.
// Load must therefore boot without any token TTL configured.
func TestLoadDoesNotRequireTokenTTL(t *testing.T) {
	for k, v := range map[string]string{
		"APP_ENV":          "test",
		"APP_PORT":         "8080",
		"DB_USER":          "floor",
		"DB_HOST":          "localhost",
		"DB_PORT":          "3306",
		"DB_NAME":          "floorplan",
		"JWT_SECRET":       "s3cret",
		"SERVICE_KEY_HASH": "$2a$04$notarealhashnotarealhashnotare",
	} {
		t.Setenv(k, v)
	}
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("jwt secret = %q", cfg.JWTSecret)
	}
	if cfg.DBPass != "" {
		t.Fatalf("db pass should default to empty, got %q", cfg.DBPass)
	}
}

func TestLoadReadsOptionalPassword(t *testing.T) {
	for k, v := range map[string]string{
		"APP_ENV":          "test",
		"APP_PORT":         "8080",
		"DB_USER":          "floor",
		"DB_PASS":          "pw",
		"DB_HOST":          "localhost",
		"DB_PORT":          "3306",
		"DB_NAME":          "floorplan",
		"JWT_SECRET":       "s3cret",
		"SERVICE_KEY_HASH": "$2a$04$notarealhashnotarealhashnotare",
	} {
		t.Setenv(k, v)
	}
	if got := Load().DBPass; got != "pw" {
		t.Fatalf("db pass = %q, want pw", got)
	}
}
