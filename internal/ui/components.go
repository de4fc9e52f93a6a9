package ui

import (
	"context"

	pinpkg "github.com/yarlson/pin"
)

// RunWithSpinner runs fn behind a terminal spinner. Used by the one-shot
// subcommands; the interactive session has its own bubbletea model.
func RunWithSpinner(msg, doneMsg string, fn func() error) error {
	p := pinpkg.New(msg,
		pinpkg.WithSpinnerColor(pinpkg.ColorMagenta),
		pinpkg.WithDoneSymbol('✓'),
		pinpkg.WithDoneSymbolColor(pinpkg.ColorGreen),
	)
	// Start spinner; it auto-disables animation when output is piped
	cancel := p.Start(context.Background())
	defer cancel()

	if err := fn(); err != nil {
		p.Fail("✗ " + err.Error())
		return err
	}
	if doneMsg == "" {
		doneMsg = msg
	}
	p.Stop(doneMsg)
	return nil
}
