package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andyballingall/cppfmt/internal/config"
)

// NewInitCmd returns a new cobra command that writes a default settings file.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   InitCmdName + " [dirpath]",
		Short: "Create a " + config.SettingsFile + " settings file",
		Long:  `Write a commented ` + config.SettingsFile + ` with the default settings into a directory (default ".").`,
		Args:  cobra.MaximumNArgs(1),
		Example: `
cppfmt init
cppfmt init ./my-project
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirpath := "."
			if len(args) == 1 {
				dirpath = args[0]
			}

			if err := os.MkdirAll(dirpath, 0o750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			path, err := config.WriteDefaultSettings(dirpath)
			if err != nil {
				return err
			}

			cmd.Printf("Successfully created settings file: %s\n", path)
			return nil
		},
	}

	return cmd
}
