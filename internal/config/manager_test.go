package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{
		"logging": {"level": "debug", "console": true},
		"storage": {"driver": "file", "path": "./store"},
		"planner": {"enabled": true, "schedule": "@every 10m", "horizon_days": 14},
		"preferences": {"work_start": "08:00", "weekend_work_allowed": true}
	}`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
	if cfg.Planner.HorizonDays != 14 {
		t.Fatalf("horizon = %d", cfg.Planner.HorizonDays)
	}
	if cfg.Preferences.WorkStart != "08:00" || !cfg.Preferences.WeekendWork {
		t.Fatalf("preferences wrong: %+v", cfg.Preferences)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
logging:
  level: info
  console: true
storage:
  driver: sqlite
  path: ./plan.db
  busy_timeout: 2s
planner:
  enabled: true
  strategy: grid
preferences:
  lunch_break_start: "11:30"
  lunch_break_duration: 45
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.Planner.Strategy != "grid" {
		t.Fatalf("strategy = %q", cfg.Planner.Strategy)
	}
	if cfg.Preferences.LunchStart != "11:30" || cfg.Preferences.LunchDuration != 45 {
		t.Fatalf("preferences wrong: %+v", cfg.Preferences)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"planner": {"enabled": true, "horzon_days": 7}}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"planner": {"enabled": true}}{"extra": 1}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty ok", cfg: Config{}},
		{name: "gap ok", cfg: Config{Planner: PlannerConfig{Strategy: "gap"}}},
		{name: "grid ok", cfg: Config{Planner: PlannerConfig{Strategy: "grid"}}},
		{name: "bad strategy", cfg: Config{Planner: PlannerConfig{Strategy: "random"}}, wantErr: true},
		{name: "negative horizon", cfg: Config{Planner: PlannerConfig{HorizonDays: -1}}, wantErr: true},
		{name: "bad busy timeout", cfg: Config{Storage: StorageConfig{BusyTimeout: "soon"}}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
