package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/carelane/triage/pkg/triage/internalerr"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %s", cfg.Addr)
	}
	if cfg.RulesPath != "rules.yaml" {
		t.Errorf("rules path = %s", cfg.RulesPath)
	}
	if cfg.AuthMode != "DEV" {
		t.Errorf("auth mode = %s", cfg.AuthMode)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TRIAGE_ADDR", ":9999")
	t.Setenv("TRIAGE_AUTH_MODE", "qa")
	t.Setenv("TRIAGE_QA_TOKEN", "tok")

	cfg := FromEnv()
	if cfg.Addr != ":9999" {
		t.Errorf("addr = %s", cfg.Addr)
	}
	if cfg.AuthMode != "QA" {
		t.Errorf("auth mode = %s, want upper-cased QA", cfg.AuthMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"dev ok", Config{RulesPath: "r.yaml", AuthMode: "DEV"}, false},
		{"missing rules", Config{AuthMode: "DEV"}, true},
		{"unknown mode", Config{RulesPath: "r.yaml", AuthMode: "BASIC"}, true},
		{"qa without token", Config{RulesPath: "r.yaml", AuthMode: "QA"}, true},
		{"okta without domain", Config{RulesPath: "r.yaml", AuthMode: "OKTA"}, true},
		{"okta ok", Config{RulesPath: "r.yaml", AuthMode: "OKTA", OktaDomain: "dev.okta.com"}, false},
	}
	for _, c := range cases {
		err := c.cfg.Validate()
		if (err != nil) != c.wantErr {
			t.Errorf("%s: err = %v, wantErr = %v", c.name, err, c.wantErr)
		}
		if err != nil && !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%s: error should wrap ErrInvalidConfig: %v", c.name, err)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nTRIAGE_TEST_KEY=from-file\nTRIAGE_TEST_QUOTED=\"quoted value\"\nmalformed line\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRIAGE_TEST_KEY", "")
	t.Setenv("TRIAGE_TEST_QUOTED", "")
	t.Setenv("TRIAGE_TEST_PRESET", "already")

	loadEnvFile(path)

	if got := os.Getenv("TRIAGE_TEST_KEY"); got != "from-file" {
		t.Errorf("TRIAGE_TEST_KEY = %q", got)
	}
	if got := os.Getenv("TRIAGE_TEST_QUOTED"); got != "quoted value" {
		t.Errorf("TRIAGE_TEST_QUOTED = %q", got)
	}
	if got := os.Getenv("TRIAGE_TEST_PRESET"); got != "already" {
		t.Errorf("existing variables must not be overridden, got %q", got)
	}
}
