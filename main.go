package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/term"

	"github.com/atomicstack/popup-launcher/internal/app"
	"github.com/atomicstack/popup-launcher/internal/cli"
	"github.com/atomicstack/popup-launcher/internal/commands"
	"github.com/atomicstack/popup-launcher/internal/config"
	"github.com/atomicstack/popup-launcher/internal/ipc"
	"github.com/atomicstack/popup-launcher/internal/logging"
	"github.com/atomicstack/popup-launcher/internal/logging/events"
	"github.com/atomicstack/popup-launcher/internal/transport"
	"github.com/atomicstack/popup-launcher/internal/ui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, runtimeCfg, os.Stdout, os.Stderr)
	stop()
	logging.Sync()
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run starts the resident when no action was given and acts as a client
// otherwise.
func run(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	if len(cfg.Args) > 0 {
		return runClient(ctx, cfg, stdout, stderr)
	}
	appCfg := cfg.App
	appCfg.About = aboutInfo(cfg)
	if appCfg.Headless {
		return app.Run(ctx, appCfg)
	}
	return ui.Run(ctx, appCfg, cfg.Surface)
}

func runClient(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	tr, err := transport.New(cfg.App.Transport)
	if err != nil {
		return err
	}
	sess, err := ipc.Dial(ctx, tr, cfg.App.Timings.ReadTimeout)
	if err != nil {
		return err
	}
	defer sess.Close()
	req, err := cli.Parse(sess.Snapshot, cfg.Args, stdout, stderr)
	if err != nil {
		return err
	}
	if req.Action == "" {
		// help or completion output only
		return nil
	}
	return sess.Send(req)
}

func aboutInfo(cfg config.Config) []commands.Info {
	address := cfg.App.Transport.SocketPath
	if tr, err := transport.New(cfg.App.Transport); err == nil {
		address = tr.Network() + "://" + tr.Address()
	}
	return []commands.Info{
		{Label: "Version", Value: version},
		{Label: "Go", Value: runtime.Version()},
		{Label: "Control address", Value: address},
		{Label: "Config file", Value: cfg.File},
		{Label: "Log file", Value: logging.Path()},
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":    cfg.Argv,
		"args":    cfg.Args,
		"flags":   flags,
		"version": version,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and
// dimensions.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
