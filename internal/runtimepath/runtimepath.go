package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	socketName = "thriveos.sock"
	pidName    = "thriveos.pid"
)

// Dir returns the directory holding the daemon socket and pid file, in order
// of preference: $XDG_RUNTIME_DIR, /run/user/<uid>, then a private
// thriveos-runtime-<uid> directory under the system temp dir.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	dir := filepath.Join(os.TempDir(), fmt.Sprintf("thriveos-runtime-%d", uid))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	return file(socketName)
}

// PIDPath returns the file the running daemon records its pid in.
func PIDPath() (string, error) {
	return file(pidName)
}

func file(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
