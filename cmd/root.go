package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "admitchat",
	Short: "Conversational admissions and fee advisor",
	Long: `Admitchat answers questions about university programs, fees,
scholarships, and admission eligibility. Questions are translated into
logic queries, executed against a fixed admissions knowledge base, and
the results are explained back in plain language. Every factual answer
is grounded in a query the knowledge base actually ran.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".admitchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
