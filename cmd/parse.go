package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"subfont/internal/session"
)

var parseCmd = &cobra.Command{
	Use:   "parse <subtitle-paths...>",
	Short: "List the font faces referenced by subtitles",
	Long:  `Parse the given subtitle files or directories and print every referenced font face once, in the order first seen.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		faces := session.CollectFaces(args, 0, nil, logger)
		for _, face := range faces {
			fmt.Println(face)
		}
		if len(faces) == 0 {
			fmt.Println("No font references found.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
