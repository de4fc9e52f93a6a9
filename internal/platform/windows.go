//go:build windows
// +build windows

package platform

import (
	"fmt"
	"syscall"
	"unsafe"

	"subfont/internal/logging"
)

const (
	HWND_BROADCAST = 0xFFFF
	WM_FONTCHANGE  = 0x001D
)

var (
	gdi32  = syscall.NewLazyDLL("gdi32.dll")
	user32 = syscall.NewLazyDLL("user32.dll")

	addFontResource    = gdi32.NewProc("AddFontResourceW")
	removeFontResource = gdi32.NewProc("RemoveFontResourceW")
	postMessage        = user32.NewProc("PostMessageW")
)

// windowsRegistrar registers fonts through GDI. AddFontResourceW is
// refcounted by the system, so repeated registrations of a shared file are
// balanced by an equal number of removals.
type windowsRegistrar struct{}

// NewRegistrar returns the Windows font registrar.
func NewRegistrar() (Registrar, error) {
	return &windowsRegistrar{}, nil
}

func (r *windowsRegistrar) Register(fontPath string) error {
	logger := logging.GetLogger()
	logger.Debug("Adding font resource for: %s", fontPath)
	pathPtr, err := syscall.UTF16PtrFromString(fontPath)
	if err != nil {
		return fmt.Errorf("failed to convert path to UTF-16: %w", err)
	}

	ret, _, _ := addFontResource.Call(uintptr(unsafe.Pointer(pathPtr)))
	if ret == 0 {
		return fmt.Errorf("AddFontResource failed for %s", fontPath)
	}
	notifyFontChange()
	return nil
}

func (r *windowsRegistrar) Unregister(fontPath string) error {
	logger := logging.GetLogger()
	logger.Debug("Removing font resource for: %s", fontPath)
	pathPtr, err := syscall.UTF16PtrFromString(fontPath)
	if err != nil {
		return fmt.Errorf("failed to convert path to UTF-16: %w", err)
	}

	ret, _, _ := removeFontResource.Call(uintptr(unsafe.Pointer(pathPtr)))
	if ret == 0 {
		return fmt.Errorf("RemoveFontResource failed for %s", fontPath)
	}
	notifyFontChange()
	return nil
}

func (r *windowsRegistrar) Close() error {
	return nil
}

// notifyFontChange tells running applications the font set changed.
// Best-effort; a lost broadcast only delays when other apps notice.
func notifyFontChange() {
	postMessage.Call(HWND_BROADCAST, WM_FONTCHANGE, 0, 0)
}
