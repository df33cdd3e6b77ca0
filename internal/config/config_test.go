package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.DatabaseDSN == "" {
		t.Fatal("default DSN must not be empty")
	}
	if cfg.SessionTTL != 10*time.Minute {
		t.Fatalf("unexpected default session TTL: %v", cfg.SessionTTL)
	}
	if cfg.S3BaseEndpoint != "" {
		t.Fatal("S3 must be disabled by default")
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"passvault", "-d", "postgres://x/y", "-t", "5"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	if cfg.DatabaseDSN != "postgres://x/y" {
		t.Fatalf("DSN not overridden: %s", cfg.DatabaseDSN)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Fatalf("session TTL not overridden: %v", cfg.SessionTTL)
	}
}

func TestParseJson_File(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "conf*.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(`{"database_dsn":"postgres://json/db","session_ttl":"15m"}`); err != nil {
		t.Fatal(err)
	}
	f.Close()

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"passvault", "-c", f.Name()}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	if cfg.DatabaseDSN != "postgres://json/db" {
		t.Fatalf("DSN not loaded from json: %s", cfg.DatabaseDSN)
	}
	if cfg.SessionTTL != 15*time.Minute {
		t.Fatalf("session TTL not loaded from json: %v", cfg.SessionTTL)
	}
}
