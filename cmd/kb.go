package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect and query the admissions knowledge base directly",
}

var kbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured knowledge base loads and parses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := createKBSessionFromConfig(cfg); err != nil {
			return err
		}
		if len(cfg.CorpusFiles) == 0 {
			fmt.Println("OK: embedded admissions knowledge base loaded")
		} else {
			fmt.Printf("OK: knowledge base loaded from %v\n", cfg.CorpusFiles)
		}
		return nil
	},
}

var kbShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the knowledge base source",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		session, err := createKBSessionFromConfig(cfg)
		if err != nil {
			return err
		}
		fmt.Print(session.Corpus().Source())
		return nil
	},
}

var kbQueryCmd = &cobra.Command{
	Use:   "query [prolog query]",
	Short: "Execute a Prolog query against the knowledge base",
	Long:  `Executes one Prolog query directly, bypassing the model, and prints the raw result. Example: admitchat kb query "fees_quote(btech_cs, 97, indian, 8000, FinalFees)"`,
	Args:  cobra.ExactArgs(1),
	RunE:  runKBQuery,
}

func init() {
	kbQueryCmd.Flags().Bool("json", false, "output the outcome as JSON")
	kbCmd.AddCommand(kbCheckCmd)
	kbCmd.AddCommand(kbShowCmd)
	kbCmd.AddCommand(kbQueryCmd)
	rootCmd.AddCommand(kbCmd)
}

func runKBQuery(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	session, err := createKBSessionFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout())
	defer cancel()
	outcome := session.Execute(ctx, args[0])

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	fmt.Println(outcome.Text())
	if outcome.Failed() {
		os.Exit(1)
	}
	return nil
}
