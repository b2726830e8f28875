package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/atomicstack/popup-launcher/internal/settings"
)

// Duration is a time.Duration written as a string ("90s", "1m30s") in the
// config file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// fileConfig mirrors config.toml. Pointer fields distinguish absent keys from
// zero values.
type fileConfig struct {
	Transport      *string   `toml:"transport"`
	Socket         *string   `toml:"socket"`
	Port           *int      `toml:"port"`
	Headless       *bool     `toml:"headless"`
	StartHidden    *bool     `toml:"start_hidden"`
	Theme          *string   `toml:"theme"`
	Width          *int      `toml:"width"`
	Height         *int      `toml:"height"`
	Footer         *bool     `toml:"footer"`
	HideResetAfter *Duration `toml:"hide_reset_after"`
	ToastSuccess   *Duration `toml:"toast_success"`
	ToastError     *Duration `toml:"toast_error"`
	ReadTimeout    *Duration `toml:"read_timeout"`
	LogFile        *string   `toml:"log_file"`
	Trace          *bool     `toml:"trace"`
}

// readFile decodes path. A missing file is only an error when required.
func readFile(path string, required bool) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fileConfig{}, fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	return fc, nil
}

// timings overlays the file's timing keys on base.
func (fc fileConfig) timings(base settings.Timings) settings.Timings {
	if fc.HideResetAfter != nil {
		base.HideResetAfter = fc.HideResetAfter.Duration
	}
	if fc.ToastSuccess != nil {
		base.ToastSuccess = fc.ToastSuccess.Duration
	}
	if fc.ToastError != nil {
		base.ToastError = fc.ToastError.Duration
	}
	if fc.ReadTimeout != nil {
		base.ReadTimeout = fc.ReadTimeout.Duration
	}
	return base
}

func strOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
