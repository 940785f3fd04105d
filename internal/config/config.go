// Package config reads process configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/carelane/triage/pkg/triage/internalerr"
)

// Config holds everything the binaries need to start.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// RulesPath points at the YAML rule catalog.
	RulesPath string
	// DBPath is the SQLite session database; empty selects the
	// in-memory store.
	DBPath string

	// OpenAIKey enables remote explanation generation when set.
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	// AuthMode is DEV (no auth), QA (static token), or OKTA.
	AuthMode     string
	QAToken      string
	OktaDomain   string
	OktaClientID string
}

// FromEnv loads configuration from the environment. A .env file in the
// working directory is applied first without overriding variables that
// are already set.
func FromEnv() Config {
	loadEnvFile(".env")

	return Config{
		Addr:          get("TRIAGE_ADDR", ":8080"),
		RulesPath:     get("TRIAGE_RULES_FILE", "rules.yaml"),
		DBPath:        get("TRIAGE_DB_FILE", "triage_sessions.db"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		AuthMode:      strings.ToUpper(get("TRIAGE_AUTH_MODE", "DEV")),
		QAToken:       os.Getenv("TRIAGE_QA_TOKEN"),
		OktaDomain:    os.Getenv("OKTA_DOMAIN"),
		OktaClientID:  os.Getenv("OKTA_CLIENT_ID"),
	}
}

// Validate rejects configurations the server cannot start with.
// Failures wrap internalerr.ErrInvalidConfig.
func (c Config) Validate() error {
	if c.RulesPath == "" {
		return fmt.Errorf("%w: rules file required", internalerr.ErrInvalidConfig)
	}
	switch c.AuthMode {
	case "DEV", "QA", "OKTA":
	default:
		return fmt.Errorf("%w: unknown auth mode %q", internalerr.ErrInvalidConfig, c.AuthMode)
	}
	if c.AuthMode == "QA" && c.QAToken == "" {
		return fmt.Errorf("%w: QA auth mode requires TRIAGE_QA_TOKEN", internalerr.ErrInvalidConfig)
	}
	if c.AuthMode == "OKTA" && c.OktaDomain == "" {
		return fmt.Errorf("%w: OKTA auth mode requires OKTA_DOMAIN", internalerr.ErrInvalidConfig)
	}
	return nil
}

func get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// loadEnvFile reads KEY=VALUE lines and sets variables that are not
// already present in the environment. Missing file is not an error.
func loadEnvFile(filename string) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if len(value) > 1 && (value[0] == '"' && value[len(value)-1] == '"' ||
			value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
