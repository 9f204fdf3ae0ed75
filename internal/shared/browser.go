package shared

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// EnvBrowser names a command that replaces the platform opener, e.g. "firefox".
const EnvBrowser = "SETLIST_BROWSER"

// browserCommand returns the program and arguments that open target on goos.
//
// A non-empty override is run with the URL as its only argument.
func browserCommand(goos, override, target string) (string, []string, error) {
	if override != "" {
		return override, []string{target}, nil
	}
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("%w: unsupported platform %s", ErrServiceUnavailable, goos)
	}
}

// OpenBrowser starts the system browser on an http(s) URL without waiting for it to exit.
//
// [EnvBrowser] overrides the platform default.
func OpenBrowser(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: not a browser URL: %q", ErrInvalidArgument, target)
	}

	override, _ := os.LookupEnv(EnvBrowser)
	name, args, err := browserCommand(runtime.GOOS, override, u.String())
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
