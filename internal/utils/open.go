package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// viewerCommand returns the platform command that opens path in the default viewer.
func viewerCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

// OpenFile launches the desktop viewer for path and detaches from it.
func OpenFile(path string) error {
	name, args := viewerCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", name, err)
	}
	return cmd.Process.Release()
}
