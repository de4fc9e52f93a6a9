package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"subfont/internal/config"
	"subfont/internal/index"
	"subfont/internal/ui"
)

var cacheClear bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show or clear the font index cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Using default configuration: %v", err)
		}
		_, cachePath := fontLocations(cfg)

		if cacheClear {
			if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove cache: %w", err)
			}
			fmt.Printf("Removed %s\n", cachePath)
			return nil
		}

		fmt.Printf("Cache: %s\n", cachePath)
		fontSet, err := index.Load(cachePath)
		switch {
		case err == nil:
			st := fontSet.Stat()
			fmt.Printf("%s\n", ui.SuccessText.Render("Valid"))
			fmt.Printf("%d file%s. %d font%s.\n", st.NumFiles, plural(st.NumFiles), st.NumFaces, plural(st.NumFaces))
		case os.IsNotExist(err):
			fmt.Printf("%s\n", ui.WarningText.Render("Not present - run 'subfont scan' to create it"))
		case errors.Is(err, index.ErrCorruptCache):
			fmt.Printf("%s\n", ui.ErrorText.Render("Corrupt - the next session will rescan"))
		default:
			return fmt.Errorf("failed to read cache: %w", err)
		}
		return nil
	},
}

func init() {
	cacheCmd.Flags().BoolVar(&cacheClear, "clear", false, "Delete the cache file")
	rootCmd.AddCommand(cacheCmd)
}
