package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"subfont/internal/config"
	"subfont/internal/logging"
	"subfont/internal/platform"
	"subfont/internal/session"
	"subfont/internal/ui"
)

var (
	verbose bool
	debug   bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subfont [subtitle-paths...]",
	Short: "Load the fonts your subtitles reference",
	Long: `Subfont parses ASS/SSA subtitle scripts, finds every font face they
reference, and registers the matching font files with the operating system
for the duration of the session. Fonts are unregistered when you close it.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		appConfig, _ := config.Load()

		logConfig := logging.DefaultConfig()
		if debug {
			logConfig.Level = logging.DebugLevel
			logConfig.ConsoleOutput = true
		} else if verbose {
			logConfig.Level = logging.InfoLevel
		}

		if appConfig != nil {
			if appConfig.Logging.MaxSize != "" {
				if maxSize, err := config.ParseMaxSize(appConfig.Logging.MaxSize); err == nil {
					logConfig.MaxSize = maxSize
				}
			}
			if appConfig.Logging.MaxFiles > 0 {
				logConfig.MaxBackups = appConfig.Logging.MaxFiles
			}
		}

		var err error
		if appConfig != nil && appConfig.Logging.LogPath != "" {
			if expanded, expandErr := config.ExpandLogPath(appConfig.Logging.LogPath); expandErr == nil {
				logger, err = logging.NewWithPath(logConfig, expanded)
				if err != nil {
					logger, err = logging.New(logConfig)
				}
			} else {
				logger, err = logging.New(logConfig)
			}
		} else {
			logger, err = logging.New(logConfig)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return logger.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed operation information")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show debug logs with timestamps (for troubleshooting)")
}

// Execute runs the root command
func Execute() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		os.Exit(1)
	}()

	return rootCmd.Execute()
}

// GetLogger returns the global logger instance
func GetLogger() *logging.Logger {
	return logger
}

// fontLocations resolves the font directory and cache path: the config can
// override both; otherwise fonts live next to the executable and the cache
// next to the fonts.
func fontLocations(cfg *config.Config) (fontDir, cachePath string) {
	if cfg != nil && cfg.Fonts.Directory != "" {
		fontDir = cfg.Fonts.Directory
	} else if exe, err := os.Executable(); err == nil {
		fontDir = filepath.Dir(exe)
	} else {
		fontDir = "."
	}
	if cfg != nil && cfg.Fonts.CachePath != "" {
		cachePath = cfg.Fonts.CachePath
	} else {
		cachePath = filepath.Join(fontDir, "fc-subs.db")
	}
	return fontDir, cachePath
}

// runSession drives the interactive load session: the worker runs the
// state machine while the dialog model shows progress and accepts
// cancel/retry/close.
func runSession(paths []string) error {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("Using default configuration: %v", err)
	}
	fontDir, cachePath := fontLocations(cfg)

	registrar, err := platform.NewRegistrar()
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("font registration unavailable: %w", err)}
	}

	ctrl := session.New(session.Options{
		Paths:             paths,
		CachePath:         cachePath,
		FontDir:           fontDir,
		Recursive:         cfg.ScanRecursive(),
		ChdirToExecutable: true,
		Registrar:         registrar,
		Logger:            logger,
	})

	ctrl.Start()
	if _, err := tea.NewProgram(ui.NewSessionModel(ctrl)).Run(); err != nil {
		ctrl.Cancel()
		logger.Error("Session dialog failed: %v", err)
	}

	// Mirror the dialog teardown: give the worker a bounded grace period,
	// then drop whatever is still registered.
	if !ctrl.Wait(session.WorkerExitTimeout) {
		logger.Error("Worker did not stop within %s", session.WorkerExitTimeout)
	}
	ctrl.Teardown()
	return nil
}
