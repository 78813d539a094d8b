package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `# test configuration
database:
  host: localhost
  port: 5432
  user: pos
  password: secret
  database: pos_db

rabbitmq:
  host: broker
  port: 5672
  user: guest
  password: guest

pos:
  tax_rate: 0.18
  default_size: Medium
  currency: INR
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 || cfg.Database.Database != "pos_db" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.RabbitMQ.Host != "broker" || cfg.RabbitMQ.Port != 5672 {
		t.Fatalf("unexpected rabbitmq config: %+v", cfg.RabbitMQ)
	}
	if cfg.POS.TaxRate != 0.18 {
		t.Fatalf("expected tax_rate 0.18, got %v", cfg.POS.TaxRate)
	}
	if cfg.POS.DefaultSize != "Medium" {
		t.Fatalf("expected default_size Medium, got %s", cfg.POS.DefaultSize)
	}
	if cfg.POS.Currency != "INR" {
		t.Fatalf("expected currency INR, got %s", cfg.POS.Currency)
	}
}

func TestLoad_POSDefaults(t *testing.T) {
	path := writeConfig(t, `database:
  host: localhost
  port: 5432
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.POS.TaxRate != 0.10 {
		t.Fatalf("expected default tax_rate 0.10, got %v", cfg.POS.TaxRate)
	}
	if cfg.POS.DefaultSize != "Large" {
		t.Fatalf("expected default size Large, got %s", cfg.POS.DefaultSize)
	}
	if cfg.POS.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %s", cfg.POS.Currency)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"tax rate out of range", "pos:\n  tax_rate: 1.5\n"},
		{"tax rate not a number", "pos:\n  tax_rate: lots\n"},
		{"unknown size", "pos:\n  default_size: Gigantic\n"},
		{"unknown key", "pos:\n  surcharge: 2\n"},
		{"unknown section", "billing:\n  mode: fast\n"},
		{"bad port", "database:\n  port: none\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestURLs(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "db", Port: 5432, User: "pos", Password: "pw", Database: "pos_db"},
		RabbitMQ: RabbitMQConfig{Host: "mq", Port: 5672, User: "guest", Password: "guest"},
	}

	if got := cfg.DatabaseURL(); got != "postgres://pos:pw@db:5432/pos_db?sslmode=disable" {
		t.Fatalf("unexpected database URL: %s", got)
	}
	if got := cfg.RabbitMQURL(); got != "amqp://guest:guest@mq:5672/" {
		t.Fatalf("unexpected rabbitmq URL: %s", got)
	}
}
