package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmehta6/admitchat/internal/chat"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the advisor a single question",
	Long:  `Asks the admissions advisor one question and prints the answer. Use --session to continue an earlier conversation.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().String("session", "", "session ID to continue")
	askCmd.Flags().Bool("json", false, "output the full turn result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

	sessionID, _ := cmd.Flags().GetString("session")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	orch, database, err := createOrchestratorFromConfig(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if sessionID == "" {
		sess, err := orch.Store().CreateSession(ctx, "cli")
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		sessionID = sess.ID
	}

	result, err := orch.HandleTurn(ctx, sessionID, question)
	if err != nil {
		var transport *chat.TransportError
		if errors.As(err, &transport) {
			if verbose {
				fmt.Fprintf(os.Stderr, "%v\n", transport)
			}
			fmt.Println(chat.Apology)
			return nil
		}
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			SessionID string `json:"session_id"`
			*chat.TurnResult
		}{sessionID, result})
	}

	fmt.Println(result.Answer.Text)
	if verbose {
		fmt.Fprintf(os.Stderr, "\nsession: %s\n", sessionID)
		if result.Query != "" {
			fmt.Fprintf(os.Stderr, "query: %s\n", result.Query)
			fmt.Fprintf(os.Stderr, "result: %s\n", result.Outcome.Text())
		}
	}
	return nil
}
