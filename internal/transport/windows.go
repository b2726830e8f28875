//go:build windows

package transport

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

const platformKind = KindTCP

func newUnix(path string, _ time.Duration) (Transport, error) {
	return nil, fmt.Errorf("unix sockets are not supported on this platform (socket %s); use transport tcp", path)
}

func isAddrInUse(err error) bool {
	return errors.Is(err, windows.WSAEADDRINUSE)
}
