package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	t.Setenv("A", "")
	t.Setenv("B", "")
	t.Setenv("C", "")
	t.Setenv("D", "")

	path := writeDotEnv(t, `
# comment

A=one
export B=two
C="three # not a comment"
D=four # trailing comment
not a pair
`)

	n, err := loadDotEnv(path)
	if err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
	if n != 4 {
		t.Fatalf("loaded %d variables, want 4", n)
	}

	for key, want := range map[string]string{"A": "one", "B": "two", "C": "three # not a comment", "D": "four"} {
		if got := os.Getenv(key); got != want {
			t.Fatalf("%s=%q, want %q", key, got, want)
		}
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")

	n, err := loadDotEnv(writeDotEnv(t, "KEEP=fromfile\n"))
	if err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
	if n != 0 {
		t.Fatalf("loaded %d variables, want 0", n)
	}
	if got := os.Getenv("KEEP"); got != "already" {
		t.Fatalf("KEEP=%q, want %q", got, "already")
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	n, err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil || n != 0 {
		t.Fatalf("loadDotEnv missing file = (%d, %v), want (0, nil)", n, err)
	}
}

func TestFromEnv_DefaultsAndOverrides(t *testing.T) {
	env := map[string]string{}
	cfg := fromEnv(func(k string) string { return env[k] })
	if cfg.DBPath != defaultDBPath || cfg.Port != defaultPort || !cfg.IsDev() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("ShutdownTimeout=%s, want %s", cfg.ShutdownTimeout, defaultShutdownTimeout)
	}

	env = map[string]string{
		"APP_ENV":          "prod",
		"DB_PATH":          "/var/lib/partnerdesk.db",
		"PORT":             "9090",
		"SHUTDOWN_TIMEOUT": "3s",
	}
	cfg = fromEnv(func(k string) string { return env[k] })
	if cfg.IsDev() {
		t.Fatalf("expected prod config")
	}
	if cfg.DBPath != "/var/lib/partnerdesk.db" || cfg.Port != "9090" || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}

	env = map[string]string{"SHUTDOWN_TIMEOUT": "soon"}
	cfg = fromEnv(func(k string) string { return env[k] })
	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("invalid timeout should fall back, got %s", cfg.ShutdownTimeout)
	}
}
