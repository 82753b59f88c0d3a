package util

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// startCommand launches a process without waiting for it.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenURL opens an http(s) URL in the system browser, e.g. a message's
// ActivityPub id.
func OpenURL(url string) error {
	// Validate URL scheme to prevent command injection
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return fmt.Errorf("refusing to open non-HTTP URL: %s", url)
	}

	switch runtime.GOOS {
	case "darwin":
		return startCommand("open", url)
	case "linux", "freebsd", "openbsd":
		return startCommand("xdg-open", url)
	case "windows":
		return startCommand("rundll32", "url.dll,FileProtocolHandler", url)
	}
	return fmt.Errorf("unsupported platform %s", runtime.GOOS)
}
