// Package doctor runs runtime readiness diagnostics for config, content, and engines.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pytrondev/pytron/internal/chrome"
	"github.com/pytrondev/pytron/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/content checks for a loaded config.
func Run(cfg config.Config) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("engine=%s root=%q", cfg.App.Engine, cfg.App.Root),
	})

	checks = append(checks, checkRoot(cfg))

	if cfg.App.Engine == config.EngineChrome {
		checks = append(checks, checkChromeBinary(cfg))
	}

	checks = append(checks, checkSocketDir())
	checks = append(checks, checkDisplay())

	return Report{Checks: checks}
}

// checkRoot validates the application root and its entry document. A
// configured URL removes the index.html requirement.
func checkRoot(cfg config.Config) Check {
	info, err := os.Stat(cfg.App.Root)
	if err != nil {
		return Check{Name: "app.root", Pass: false, Message: fmt.Sprintf("not accessible: %v", err)}
	}
	if !info.IsDir() {
		return Check{Name: "app.root", Pass: false, Message: fmt.Sprintf("%q is not a directory", cfg.App.Root)}
	}

	if cfg.App.URL != "" {
		return Check{Name: "app.root", Pass: true, Message: fmt.Sprintf("serving %q (url override %q)", cfg.App.Root, cfg.App.URL)}
	}

	index := filepath.Join(cfg.App.Root, "index.html")
	if _, err := os.Stat(index); err != nil {
		return Check{Name: "app.root", Pass: false, Message: fmt.Sprintf("missing index.html under %q", cfg.App.Root)}
	}
	return Check{Name: "app.root", Pass: true, Message: fmt.Sprintf("serving %q", cfg.App.Root)}
}

// checkChromeBinary resolves the out-of-process shell executable.
func checkChromeBinary(cfg config.Config) Check {
	path, err := chrome.ResolveBinary(cfg.Chrome.Binary)
	if err != nil {
		return Check{Name: "chrome.binary", Pass: false, Message: err.Error()}
	}
	return Check{Name: "chrome.binary", Pass: true, Message: fmt.Sprintf("found at %s", path)}
}

// checkSocketDir verifies the IPC endpoint directory is writable.
func checkSocketDir() Check {
	dir := os.TempDir()
	f, err := os.CreateTemp(dir, "pytron-doctor-*")
	if err != nil {
		return Check{Name: "ipc.dir", Pass: false, Message: fmt.Sprintf("not writable: %v", err)}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return Check{Name: "ipc.dir", Pass: true, Message: fmt.Sprintf("writable at %s", dir)}
}

// checkDisplay reports whether a display server is reachable. Informational
// on platforms where the env vars do not apply.
func checkDisplay() Check {
	if strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) != "" {
		return Check{Name: "display", Pass: true, Message: "wayland session detected"}
	}
	if strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
		return Check{Name: "display", Pass: true, Message: "x11 session detected"}
	}
	return Check{Name: "display", Pass: false, Message: "no DISPLAY or WAYLAND_DISPLAY set"}
}
