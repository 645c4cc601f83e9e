package native

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// openExternal hands a URL to the platform's default browser.
func openExternal(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("powershell", "-NoProfile", "-Command", fmt.Sprintf("Start-Process '%s'", url))
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open external url: %w", err)
	}
	return nil
}

// desktopNotify posts a freedesktop notification over DBus via busctl. Other
// platforms fall back silently; the chrome engine carries notifications there.
func desktopNotify(title, message string) error {
	if runtime.GOOS != "linux" {
		return nil
	}

	args := []string{
		"--user",
		"call",
		"org.freedesktop.Notifications",
		"/org/freedesktop/Notifications",
		"org.freedesktop.Notifications",
		"Notify",
		"susssasa{sv}i",
		"Pytron",
		"0",
		"",
		title,
		message,
		"0", // actions array length
		"0", // hints map length
		"5000",
	}

	out, err := exec.Command("busctl", args...).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("desktop notify failed: %w", err)
		}
		return fmt.Errorf("desktop notify failed: %w (%s)", err, trimmed)
	}
	return nil
}
