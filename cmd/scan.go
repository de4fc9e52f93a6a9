package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"subfont/internal/config"
	"subfont/internal/index"
	"subfont/internal/session"
	"subfont/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rebuild the font index cache",
	Long:  `Scan the font directory, rebuild the face-to-file index, and persist it as the cache used by later sessions.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Using default configuration: %v", err)
		}
		fontDir, cachePath := fontLocations(cfg)

		var st index.Stat
		err = ui.RunWithSpinner(fmt.Sprintf("Scanning %s", fontDir), "", func() error {
			fontSet := session.BuildFontIndex(fontDir, cfg.ScanRecursive(), nil, logger)
			st = fontSet.Stat()
			if err := fontSet.Dump(cachePath); err != nil {
				return fmt.Errorf("failed to persist font cache: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		fmt.Printf("%d file%s. %d font%s.\n", st.NumFiles, plural(st.NumFiles), st.NumFaces, plural(st.NumFaces))
		fmt.Printf("Cache written to %s\n", cachePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
