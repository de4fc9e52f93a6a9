//go:build darwin
// +build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// darwinRegistrar exposes fonts by copying them into a session subdirectory
// of the user's font library. CoreText picks the directory up without an
// explicit cache refresh.
type darwinRegistrar struct {
	sessionDir string
	refs       map[string]int
}

// NewRegistrar returns the macOS font registrar.
func NewRegistrar() (Registrar, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	sessionDir := filepath.Join(homeDir, "Library", "Fonts", fmt.Sprintf("subfont-%d", os.Getpid()))
	if err := ensureDir(sessionDir); err != nil {
		return nil, fmt.Errorf("failed to ensure session font directory exists: %w", err)
	}

	return &darwinRegistrar{
		sessionDir: sessionDir,
		refs:       make(map[string]int),
	}, nil
}

func (r *darwinRegistrar) Register(fontPath string) error {
	if r.refs[fontPath] > 0 {
		r.refs[fontPath]++
		return nil
	}

	targetPath := filepath.Join(r.sessionDir, filepath.Base(fontPath))
	if err := copyFile(fontPath, targetPath); err != nil {
		return fmt.Errorf("failed to copy font file: %w", err)
	}
	r.refs[fontPath] = 1
	return nil
}

func (r *darwinRegistrar) Unregister(fontPath string) error {
	n := r.refs[fontPath]
	if n == 0 {
		return fmt.Errorf("font not registered: %s", fontPath)
	}
	if n > 1 {
		r.refs[fontPath] = n - 1
		return nil
	}
	delete(r.refs, fontPath)

	targetPath := filepath.Join(r.sessionDir, filepath.Base(fontPath))
	if err := os.Remove(targetPath); err != nil {
		return fmt.Errorf("failed to remove font file: %w", err)
	}
	return nil
}

func (r *darwinRegistrar) Close() error {
	r.refs = make(map[string]int)
	if err := os.RemoveAll(r.sessionDir); err != nil {
		return fmt.Errorf("failed to remove session font directory: %w", err)
	}
	return nil
}
