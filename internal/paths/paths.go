// Package paths resolves the per-application directories used by the
// launcher: the runtime directory holding the control socket, the config
// directory, and the cache directory holding the log file.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// Name is the application directory and file stem.
const Name = "popup-launcher"

// DefaultPort is the loopback port used when unix sockets are unavailable.
const DefaultPort = 28437

type baseDirs struct {
	config  string
	cache   string
	runtime string
}

var mu sync.Mutex

// bases re-reads the XDG environment so changes made after start-up are
// honoured.
func bases() baseDirs {
	mu.Lock()
	defer mu.Unlock()
	xdg.Reload()
	return baseDirs{config: xdg.ConfigHome, cache: xdg.CacheHome, runtime: xdg.RuntimeDir}
}

// RuntimeDir returns the directory that holds the control socket. When the
// XDG runtime directory does not exist, a per-user directory under the
// system temp dir is used so two users never share a socket.
func RuntimeDir() string {
	if base := bases().runtime; base != "" {
		if info, err := os.Stat(base); err == nil && info.IsDir() {
			return filepath.Join(base, Name)
		}
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", Name, os.Getuid()))
}

// SocketPath returns the well-known control socket path.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), Name+".sock")
}

// ConfigDir returns the directory holding config.toml.
func ConfigDir() string {
	return filepath.Join(bases().config, Name)
}

// ConfigFile returns the default configuration file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the directory used for logs.
func CacheDir() string {
	return filepath.Join(bases().cache, Name)
}

// LogFile returns the default log file path.
func LogFile() string {
	return filepath.Join(CacheDir(), Name+".log")
}
