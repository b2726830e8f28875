package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/popup-launcher/internal/app"
	"github.com/atomicstack/popup-launcher/internal/paths"
	"github.com/atomicstack/popup-launcher/internal/settings"
	"github.com/atomicstack/popup-launcher/internal/theme"
	"github.com/atomicstack/popup-launcher/internal/transport"
	"github.com/atomicstack/popup-launcher/internal/ui"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Surface ui.Options
	Logging Logging
	// File is the config file consulted, whether or not it exists.
	File  string
	Flags map[string]string
	// Argv is the raw argument list; Args are the positional arguments left
	// for the client after the global flags.
	Argv []string
	Args []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig         = "POPUP_LAUNCHER_CONFIG"
	envTransport      = "POPUP_LAUNCHER_TRANSPORT"
	envSocketPath     = "POPUP_LAUNCHER_SOCKET"
	envPort           = "POPUP_LAUNCHER_PORT"
	envHeadless       = "POPUP_LAUNCHER_HEADLESS"
	envStartHidden    = "POPUP_LAUNCHER_START_HIDDEN"
	envTheme          = "POPUP_LAUNCHER_THEME"
	envWidth          = "POPUP_LAUNCHER_WIDTH"
	envHeight         = "POPUP_LAUNCHER_HEIGHT"
	envShowFooter     = "POPUP_LAUNCHER_FOOTER"
	envHideResetAfter = "POPUP_LAUNCHER_HIDE_RESET_AFTER"
	envToastSuccess   = "POPUP_LAUNCHER_TOAST_SUCCESS"
	envToastError     = "POPUP_LAUNCHER_TOAST_ERROR"
	envReadTimeout    = "POPUP_LAUNCHER_READ_TIMEOUT"
	envTrace          = "POPUP_LAUNCHER_TRACE"
	envLogFile        = "POPUP_LAUNCHER_LOG_FILE"
)

// Load parses configuration from CLI arguments, environment variables and
// the config file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path, explicit := configPath(args, env)
	file, err := readFile(path, explicit)
	if err != nil {
		return Config{}, err
	}
	defaults := file.timings(settings.Defaults())

	fs := flag.NewFlagSet(paths.Name, flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to the TOML config file")
	kind := fs.String("transport", envOrDefault(env, envTransport, strOr(file.Transport, "")), "control transport: unix or tcp (default: platform)")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, strOr(file.Socket, "")), "path to the control socket")
	port := fs.Int("port", envOrInt(env, envPort, intOr(file.Port, paths.DefaultPort)), "loopback port for the tcp transport")
	headless := fs.Bool("headless", envOrBool(env, envHeadless, boolOr(file.Headless, false)), "run the resident without a terminal surface")
	startHidden := fs.Bool("start-hidden", envOrBool(env, envStartHidden, boolOr(file.StartHidden, false)), "start the resident hidden")
	themeID := fs.String("theme", envOrDefault(env, envTheme, strOr(file.Theme, theme.DefaultID)), "initial theme id")
	width := fs.Int("width", envOrInt(env, envWidth, intOr(file.Width, 0)), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, intOr(file.Height, 0)), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, boolOr(file.Footer, false)), "enable footer hint row")
	hideReset := fs.Duration("hide-reset-after", envOrDuration(env, envHideResetAfter, defaults.HideResetAfter), "reset navigation after staying hidden this long")
	toastSuccess := fs.Duration("toast-success", envOrDuration(env, envToastSuccess, defaults.ToastSuccess), "how long success notifications stay visible")
	toastError := fs.Duration("toast-error", envOrDuration(env, envToastError, defaults.ToastError), "how long error notifications stay visible")
	readTimeout := fs.Duration("read-timeout", envOrDuration(env, envReadTimeout, defaults.ReadTimeout), "deadline for a single client connection")
	trace := fs.Bool("trace", envOrBool(env, envTrace, boolOr(file.Trace, false)), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, strOr(file.LogFile, "")), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	transportKind, err := transport.ParseKind(*kind)
	if err != nil {
		return Config{}, err
	}

	timings := settings.Timings{
		HideResetAfter: *hideReset,
		ToastSuccess:   *toastSuccess,
		ToastError:     *toastError,
		ReadTimeout:    *readTimeout,
	}
	pinned := pinnedTimings(fs, env, timings)

	cfg := Config{
		App: app.Config{
			Transport: transport.Config{
				Kind:       transportKind,
				SocketPath: *socket,
				Port:       *port,
			},
			Headless:    *headless,
			StartHidden: *startHidden,
			Theme:       *themeID,
			Timings:     timings.Normalize(),
			ConfigFile:  path,
			LoadTimings: func(p string) (settings.Timings, error) {
				return LoadTimings(p, pinned)
			},
		},
		Surface: ui.Options{
			Width:      *width,
			Height:     *height,
			ShowFooter: *footer,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: path,
		Flags: map[string]string{
			"config":         path,
			"transport":      string(transportKind),
			"socket":         *socket,
			"port":           strconv.Itoa(*port),
			"headless":       strconv.FormatBool(*headless),
			"startHidden":    strconv.FormatBool(*startHidden),
			"theme":          *themeID,
			"width":          strconv.Itoa(*width),
			"height":         strconv.Itoa(*height),
			"footer":         strconv.FormatBool(*footer),
			"hideResetAfter": hideReset.String(),
			"toastSuccess":   toastSuccess.String(),
			"toastError":     toastError.String(),
			"readTimeout":    readTimeout.String(),
			"trace":          strconv.FormatBool(*trace),
			"logFile":        *logFile,
		},
		Argv: append([]string(nil), args...),
		Args: append([]string(nil), fs.Args()...),
	}

	return cfg, nil
}

// configPath finds --config before the flag set exists, since the file
// supplies the other flags' defaults.
func configPath(args []string, env map[string]string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" || !strings.HasPrefix(arg, "-") {
			break
		}
		name := strings.TrimLeft(arg, "-")
		switch {
		case name == "config" && i+1 < len(args):
			return args[i+1], true
		case strings.HasPrefix(name, "config="):
			return strings.TrimPrefix(name, "config="), true
		}
	}
	if v := strings.TrimSpace(env[envConfig]); v != "" {
		return v, true
	}
	return paths.ConfigFile(), false
}

// Overrides pins timing values set by flag or environment so a reloaded
// file cannot replace them.
type Overrides struct {
	HideResetAfter *time.Duration
	ToastSuccess   *time.Duration
	ToastError     *time.Duration
	ReadTimeout    *time.Duration
}

func pinnedTimings(fs *flag.FlagSet, env map[string]string, t settings.Timings) Overrides {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	pin := func(flagName, envName string, v time.Duration) *time.Duration {
		if _, ok := env[envName]; ok || set[flagName] {
			return &v
		}
		return nil
	}
	return Overrides{
		HideResetAfter: pin("hide-reset-after", envHideResetAfter, t.HideResetAfter),
		ToastSuccess:   pin("toast-success", envToastSuccess, t.ToastSuccess),
		ToastError:     pin("toast-error", envToastError, t.ToastError),
		ReadTimeout:    pin("read-timeout", envReadTimeout, t.ReadTimeout),
	}
}

// LoadTimings re-reads the timing keys of the config file at path and
// applies the pinned overrides.
func LoadTimings(path string, pinned Overrides) (settings.Timings, error) {
	file, err := readFile(path, true)
	if err != nil {
		return settings.Timings{}, err
	}
	t := file.timings(settings.Defaults())
	if pinned.HideResetAfter != nil {
		t.HideResetAfter = *pinned.HideResetAfter
	}
	if pinned.ToastSuccess != nil {
		t.ToastSuccess = *pinned.ToastSuccess
	}
	if pinned.ToastError != nil {
		t.ToastError = *pinned.ToastError
	}
	if pinned.ReadTimeout != nil {
		t.ReadTimeout = *pinned.ReadTimeout
	}
	return t.Normalize(), nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures the loaded values are usable.
func Validate(cfg Config) error {
	if p := cfg.App.Transport.Port; p <= 0 || p > 65535 {
		return fmt.Errorf("port must be in 1-65535 (got %d)", p)
	}
	if cfg.Surface.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.Surface.Width)
	}
	if cfg.Surface.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.Surface.Height)
	}
	if _, ok := theme.Lookup(cfg.App.Theme); !ok {
		return fmt.Errorf("unknown theme %q", cfg.App.Theme)
	}
	return nil
}
