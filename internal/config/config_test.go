package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/popup-launcher/internal/paths"
	"github.com/atomicstack/popup-launcher/internal/settings"
	"github.com/atomicstack/popup-launcher/internal/transport"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Transport.Kind != transport.KindAuto || cfg.App.Transport.Port != paths.DefaultPort {
		t.Fatalf("unexpected transport %+v", cfg.App.Transport)
	}
	if cfg.App.Timings != settings.Defaults() {
		t.Fatalf("unexpected timings %+v", cfg.App.Timings)
	}
	if cfg.App.Theme != "default" || cfg.App.Headless || cfg.App.StartHidden {
		t.Fatalf("unexpected app config %+v", cfg.App)
	}
	if len(cfg.Args) != 0 {
		t.Fatalf("expected no client args, got %v", cfg.Args)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestPrecedenceFlagEnvFile(t *testing.T) {
	path := writeConfig(t, `
transport = "tcp"
port = 4000
theme = "dracula"
hide_reset_after = "10s"
toast_error = "7s"
start_hidden = true
`)
	env := []string{
		"POPUP_LAUNCHER_PORT=5000",
		"POPUP_LAUNCHER_TOAST_ERROR=8s",
	}
	cfg, err := LoadArgs([]string{"--config", path, "--theme", "gruvbox-dark", "--toast-error", "9s"}, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Transport.Kind != transport.KindTCP {
		t.Fatalf("expected file transport, got %q", cfg.App.Transport.Kind)
	}
	if cfg.App.Transport.Port != 5000 {
		t.Fatalf("expected env to beat file, got %d", cfg.App.Transport.Port)
	}
	if cfg.App.Theme != "gruvbox-dark" {
		t.Fatalf("expected flag to beat file, got %q", cfg.App.Theme)
	}
	if cfg.App.Timings.ToastError != 9*time.Second {
		t.Fatalf("expected flag to beat env, got %v", cfg.App.Timings.ToastError)
	}
	if cfg.App.Timings.HideResetAfter != 10*time.Second {
		t.Fatalf("expected file value, got %v", cfg.App.Timings.HideResetAfter)
	}
	if !cfg.App.StartHidden {
		t.Fatal("expected start_hidden from file")
	}
	if cfg.App.ConfigFile != path || cfg.Flags["config"] != path {
		t.Fatalf("expected config path recorded, got %q", cfg.App.ConfigFile)
	}
}

func TestPositionalArgsGoToClient(t *testing.T) {
	cfg, err := LoadArgs([]string{"--config=" + writeConfig(t, ""), "--transport", "tcp", "pipe", "-d", ","}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"pipe", "-d", ","}
	if strings.Join(cfg.Args, " ") != strings.Join(want, " ") {
		t.Fatalf("expected %v, got %v", want, cfg.Args)
	}
	if len(cfg.Argv) != 6 {
		t.Fatalf("expected raw argv kept, got %v", cfg.Argv)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := LoadArgs([]string{"--config", missing}, nil); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if _, err := LoadArgs(nil, []string{"POPUP_LAUNCHER_CONFIG=" + missing}); err == nil {
		t.Fatal("expected error for missing config named by env")
	}
}

func TestConfigFileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":  `colour = "red"`,
		"bad duration": `toast_error = "soon"`,
		"bad syntax":   `port = `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadArgs([]string{"--config", writeConfig(t, body)}, nil); err == nil {
				t.Fatalf("expected error for %q", body)
			}
		})
	}
}

func TestInvalidTransport(t *testing.T) {
	if _, err := LoadArgs([]string{"--config=" + writeConfig(t, ""), "--transport", "pigeon"}, nil); err == nil {
		t.Fatal("expected unknown transport error")
	}
}

func TestValidate(t *testing.T) {
	base, err := LoadArgs([]string{"--config=" + writeConfig(t, "")}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	bad := base
	bad.App.Theme = "neon"
	if err := Validate(bad); err == nil {
		t.Fatal("expected unknown theme error")
	}
	bad = base
	bad.App.Transport.Port = 70000
	if err := Validate(bad); err == nil {
		t.Fatal("expected port range error")
	}
	bad = base
	bad.Surface.Width = -1
	if err := Validate(bad); err == nil {
		t.Fatal("expected width error")
	}
}

func TestLoadTimingsKeepsPinnedValues(t *testing.T) {
	path := writeConfig(t, `toast_success = "1s"`)
	cfg, err := LoadArgs([]string{"--config", path, "--hide-reset-after", "30s"}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := os.WriteFile(path, []byte("toast_success = \"2s\"\nhide_reset_after = \"5s\"\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	got, err := cfg.App.LoadTimings(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ToastSuccess != 2*time.Second {
		t.Fatalf("expected reloaded toast duration, got %v", got.ToastSuccess)
	}
	if got.HideResetAfter != 30*time.Second {
		t.Fatalf("expected flag value to stay pinned, got %v", got.HideResetAfter)
	}
	if got.ToastError != settings.Defaults().ToastError {
		t.Fatalf("expected default for absent key, got %v", got.ToastError)
	}
}
