// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Debounce.Std() != 300*time.Millisecond {
		t.Errorf("Debounce = %v, want 300ms", cfg.Debounce.Std())
	}
	if cfg.QuietWindow.Std() != 500*time.Millisecond {
		t.Errorf("QuietWindow = %v, want 500ms", cfg.QuietWindow.Std())
	}
	if cfg.PollInterval.Std() != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval.Std())
	}
	if !cfg.AutoRefresh {
		t.Error("AutoRefresh should default to true")
	}
}

func TestNormalize_Clamps(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "zero workers",
			in:   Config{Workers: 0, Debounce: Duration(time.Millisecond), PollInterval: Duration(time.Second)},
			want: Config{Workers: 1, Debounce: Duration(time.Millisecond), PollInterval: Duration(time.Second)},
		},
		{
			name: "too many workers",
			in:   Config{Workers: 100, Debounce: Duration(time.Millisecond), PollInterval: Duration(time.Second)},
			want: Config{Workers: 16, Debounce: Duration(time.Millisecond), PollInterval: Duration(time.Second)},
		},
		{
			name: "non-positive debounce",
			in:   Config{Workers: 4, Debounce: 0, PollInterval: Duration(time.Second)},
			want: Config{Workers: 4, Debounce: Duration(300 * time.Millisecond), PollInterval: Duration(time.Second)},
		},
		{
			name: "negative quiet window",
			in:   Config{Workers: 4, Debounce: Duration(time.Millisecond), QuietWindow: Duration(-time.Second), PollInterval: Duration(time.Second)},
			want: Config{Workers: 4, Debounce: Duration(time.Millisecond), QuietWindow: 0, PollInterval: Duration(time.Second)},
		},
		{
			name: "tiny poll interval",
			in:   Config{Workers: 4, Debounce: Duration(time.Millisecond), PollInterval: Duration(50 * time.Millisecond)},
			want: Config{Workers: 4, Debounce: Duration(time.Millisecond), PollInterval: Duration(time.Second)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.Normalize()
			if cfg != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestLoad_DefaultsIfMissing(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workers != 4 || !cfg.AutoRefresh {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "workers: 8\ndebounce: 100ms\nauto_refresh: false\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Debounce.Std() != 100*time.Millisecond {
		t.Errorf("Debounce = %v, want 100ms", cfg.Debounce.Std())
	}
	if cfg.AutoRefresh {
		t.Error("AutoRefresh should be false")
	}
	// Unset fields keep their defaults.
	if cfg.PollInterval.Std() != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval.Std())
	}
}

func TestLoad_MalformedDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("debounce: soonish\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Error("unparseable duration should fail to load")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := NewConfig()
	cfg.Workers = 6
	cfg.QuietWindow = Duration(750 * time.Millisecond)
	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Workers != 6 {
		t.Errorf("Workers = %d, want 6", loaded.Workers)
	}
	if loaded.QuietWindow.Std() != 750*time.Millisecond {
		t.Errorf("QuietWindow = %v, want 750ms", loaded.QuietWindow.Std())
	}
}
