package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"furitingoasis/growlight/internal/policy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Light.OptimalLux != 40000 || cfg.Light.ToleranceLux != 5000 {
		t.Errorf("unexpected light thresholds %+v", cfg.Light)
	}
	if cfg.Light.Address != 0x5c {
		t.Errorf("expected light sensor at 0x5c, got 0x%x", cfg.Light.Address)
	}
	if cfg.Relay.Pin != "40" || cfg.Relay.Policy != "schedule" || cfg.Relay.ActiveHigh {
		t.Errorf("unexpected relay defaults %+v", cfg.Relay)
	}
	if cfg.Loop.Interval != 60*time.Second {
		t.Errorf("expected 60s interval, got %s", cfg.Loop.Interval)
	}
	if cfg.Storage.CSVPath != "data.csv" || cfg.Storage.DBPath != "data.db" {
		t.Errorf("unexpected storage defaults %+v", cfg.Storage)
	}
	if cfg.Climate.MaxAttempts != 5 || cfg.Climate.RetryDelay != 2*time.Second {
		t.Errorf("unexpected climate defaults %+v", cfg.Climate)
	}
	if cfg.MQTT.BrokerURL != "" {
		t.Errorf("mqtt should be disabled by default, got %q", cfg.MQTT.BrokerURL)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
light:
  optimalLux: 30000
  toleranceLux: 2500
relay:
  policy: daylight
  dayStart: "07:30"
  dayEnd: "18:00"
loop:
  interval: 30s
logging:
  logFormat: JSON
  logLevel: debug
`)
	t.Setenv("CSV_PATH", "/var/lib/growlight/data.csv")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Light.OptimalLux != 30000 || cfg.Light.ToleranceLux != 2500 {
		t.Errorf("file values not applied: %+v", cfg.Light)
	}
	if cfg.Loop.Interval != 30*time.Second {
		t.Errorf("expected 30s interval, got %s", cfg.Loop.Interval)
	}
	if cfg.Storage.CSVPath != "/var/lib/growlight/data.csv" {
		t.Errorf("env override not applied: %q", cfg.Storage.CSVPath)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("log format should be normalised, got %q", cfg.Logging.Format)
	}

	rp, err := cfg.RelayPolicy()
	if err != nil {
		t.Fatalf("RelayPolicy failed: %v", err)
	}
	if rp.Variant != policy.Daylight || rp.Day.Start != (policy.ClockTime{Hour: 7, Minute: 30}) {
		t.Errorf("unexpected relay policy %+v", rp)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(writeConfig(t, "{}\n"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown policy",
			mutate:  func(c *Config) { c.Relay.Policy = "always" },
			wantErr: "unknown relay policy",
		},
		{
			name:    "inverted day window",
			mutate:  func(c *Config) { c.Relay.DayStart, c.Relay.DayEnd = "20:00", "06:00" },
			wantErr: "must be before",
		},
		{
			name:    "interval too short",
			mutate:  func(c *Config) { c.Loop.Interval = 10 * time.Millisecond },
			wantErr: "poll interval",
		},
		{
			name:    "negative tolerance",
			mutate:  func(c *Config) { c.Light.ToleranceLux = -1 },
			wantErr: "tolerance",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logLevel",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logFormat",
		},
		{
			name:    "missing relay pin",
			mutate:  func(c *Config) { c.Relay.Pin = " " },
			wantErr: "relay pin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownPolicyIsSentinel(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Relay.Policy = "manual"
	if err := cfg.Validate(); !errors.Is(err, policy.ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json", "logfmt"} {
		t.Run(format, func(t *testing.T) {
			logger, err := NewLogger(&LoggingConfig{Format: format, Level: "warn"})
			if err != nil {
				t.Fatalf("NewLogger failed: %v", err)
			}
			if logger.Core().Enabled(-1) {
				t.Error("debug should be disabled at warn level")
			}
		})
	}
}
