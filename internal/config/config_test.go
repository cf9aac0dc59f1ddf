package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"daylist/internal/tasks/api"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvTimeout, "")
	return home
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Default(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != api.DefaultBaseURL {
		t.Errorf("expected default api url, got %q", cfg.APIURL)
	}
	if cfg.Timeout != api.DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.ToastDuration != 3*time.Second {
		t.Errorf("expected 3s toast duration, got %v", cfg.ToastDuration)
	}
	if !cfg.UndoToastSticky {
		t.Error("expected undo toasts to be sticky by default")
	}
	want := filepath.Join(home, ".config", "daylist", "config.yaml")
	if cfg.Path != want {
		t.Errorf("expected path %q, got %q", want, cfg.Path)
	}
	if Get() != cfg {
		t.Error("Get should return the last loaded config")
	}
}

func TestLoad_File(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".config", "daylist", "config.yaml"), `
api_url: http://tasks.internal/api
token: secret
timeout: 2s
toast_duration: 1500ms
undo_toast_sticky: false
week_start: sunday
`)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != "http://tasks.internal/api" {
		t.Errorf("api url = %q", cfg.APIURL)
	}
	if cfg.Token != "secret" {
		t.Errorf("token = %q", cfg.Token)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.ToastDuration != 1500*time.Millisecond {
		t.Errorf("toast duration = %v", cfg.ToastDuration)
	}
	if cfg.UndoToastSticky {
		t.Error("expected undo_toast_sticky false")
	}
	if cfg.WeekStart != time.Sunday {
		t.Errorf("week start = %v", cfg.WeekStart)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".config", "daylist", "config.yaml"), "timeout: soon\n")

	if _, err := Load(CLIFlags{}); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestLoad_EnvVar(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".config", "daylist", "config.yaml"), "api_url: http://file/api\n")
	t.Setenv(EnvAPIURL, "http://env/api")
	t.Setenv(EnvTimeout, "30s")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != "http://env/api" {
		t.Errorf("expected env to override file, got %q", cfg.APIURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
}

func TestLoad_CLIFlags(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIURL, "http://env/api")
	t.Setenv(EnvToken, "env-token")

	cfg, err := Load(CLIFlags{APIURL: "http://flag/api", Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// CLI flags should override env vars
	if cfg.APIURL != "http://flag/api" {
		t.Errorf("expected flag api url, got %q", cfg.APIURL)
	}
	if cfg.Token != "env-token" {
		t.Errorf("expected env token to survive, got %q", cfg.Token)
	}
	if cfg.Timeout != time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeConfig(t, path, "token: from-custom\n")

	cfg, err := Load(CLIFlags{ConfigPath: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Token != "from-custom" {
		t.Errorf("token = %q", cfg.Token)
	}
	if cfg.Dir() != filepath.Dir(path) {
		t.Errorf("dir = %q", cfg.Dir())
	}
}

func TestEnsureConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := EnsureConfigFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load(CLIFlags{ConfigPath: path})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	def := Defaults()
	if cfg.APIURL != def.APIURL || cfg.Timeout != def.Timeout || cfg.WeekStart != def.WeekStart {
		t.Errorf("written defaults do not round trip: %+v", cfg)
	}

	// An existing file is left alone.
	writeConfig(t, path, "token: keep\n")
	if err := EnsureConfigFile(path); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "token: keep\n" {
		t.Errorf("existing config was overwritten: %q", raw)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"monday", time.Monday, false},
		{"Sun", time.Sunday, false},
		{" saturday ", time.Saturday, false},
		{"funday", time.Monday, true},
	}

	for _, tt := range tests {
		got, err := ParseWeekday(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWeekday(%q): err = %v", tt.input, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
