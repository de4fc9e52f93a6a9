// Package platform provides the OS font registration hooks the session
// drives. On Windows registration is the native GDI resource call; on Linux
// and macOS the file is exposed through a session directory inside the
// user's font path.
package platform

import (
	"fmt"
	"io"
	"os"
)

// Registrar makes a font file available to the OS font system and removes
// it again. Registrations are refcounted: each Register of a path must be
// matched by one Unregister of the same path.
type Registrar interface {
	Register(fontPath string) error
	Unregister(fontPath string) error
	// Close releases anything the registrar still holds. On Linux and macOS
	// it removes the session font directory, dropping fonts that were
	// registered but never unregistered. On Windows it does nothing; such
	// fonts stay registered.
	Close() error
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to get source file info: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination file: %w", err)
	}
	return nil
}
