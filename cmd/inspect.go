package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"subfont/internal/sfnt"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <font-file>",
	Short: "List the face names a font file advertises",
	Long:  `Read a font file or collection and print every face name its naming tables advertise.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("failed to read font file: %w", err)}
		}
		names, err := sfnt.ReadFaceNames(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		if len(names) == 0 {
			fmt.Println("No face names found.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
