package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// Launcher opens catalog and marketplace links in an external browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments placed before the URL
	logger  *slog.Logger

	// start runs the command; replaced in tests
	start func(name string, args ...string) error
}

// systemOpeners is the platform default opener per GOOS
var systemOpeners = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// NewLauncher creates a launcher using command, or the system opener when empty
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		start:   startDetached,
	}
}

// Open launches rawURL; only http(s) URLs are accepted
func (l *Launcher) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open non-web URL %q", rawURL)
	}

	name, args := l.resolve()
	if name == "" {
		return fmt.Errorf("no browser opener for platform %s", runtime.GOOS)
	}
	args = append(args, rawURL)

	l.logger.Info("opening link", "command", name, "url", rawURL)
	if err := l.start(name, args...); err != nil {
		l.logger.Error("failed to open link", "command", name, "error", err)
		return fmt.Errorf("failed to open %s: %w", rawURL, err)
	}
	return nil
}

// resolve returns the command and leading args to run
func (l *Launcher) resolve() (string, []string) {
	if l.command != "" {
		return l.command, append([]string{}, l.args...)
	}
	opener, ok := systemOpeners[runtime.GOOS]
	if !ok {
		opener = systemOpeners["linux"]
	}
	return opener[0], append([]string{}, opener[1:]...)
}

// startDetached starts the command without waiting for it to exit
func startDetached(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}
