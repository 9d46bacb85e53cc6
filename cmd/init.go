package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nmehta6/admitchat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize admitchat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose a model provider and defaults, and generates a .admitchat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
