package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTP.Addr != ":5000" {
		t.Errorf("http.addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Env != "dev" {
		t.Errorf("env = %q", cfg.Env)
	}
	if cfg.MySQL.DSN == "" {
		t.Error("mysql.dsn default must not be empty")
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis disabled by default, got addr %q", cfg.Redis.Addr)
	}
	if len(cfg.Webhooks) != 0 {
		t.Errorf("no webhook subscribers by default, got %d", len(cfg.Webhooks))
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTP.Addr != ":5000" {
		t.Errorf("http.addr = %q, want embedded default", cfg.HTTP.Addr)
	}
}
