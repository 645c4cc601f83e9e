package chrome

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrBinaryNotFound reports that no shell executable could be located.
var ErrBinaryNotFound = errors.New("chrome shell binary not found")

// shellNames are the executables probed on PATH, most specific first.
var shellNames = []string{"pytron-shell", "electron"}

// ResolveBinary locates the out-of-process shell executable. A configured
// path wins; otherwise PATH is searched, then the user-level install dir.
func ResolveBinary(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("configured chrome.binary %q: %w", configured, err)
		}
		return configured, nil
	}

	for _, name := range shellNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		name := "electron"
		if runtime.GOOS == "windows" {
			name = "electron.exe"
		}
		path := filepath.Join(home, ".pytron", "engines", "chrome", name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrBinaryNotFound
}
