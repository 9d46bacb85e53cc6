package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/nmehta6/admitchat/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive advisor conversation",
	Long: `Starts an interactive conversation with the admissions advisor in the
terminal. Type questions; type "exit" or press Ctrl-D to end the
conversation.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	orch, database, err := createOrchestratorFromConfig(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	sess, err := orch.Store().CreateSession(ctx, "cli")
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	fmt.Println("Admissions advisor ready. Ask about programs, fees, or eligibility.")
	fmt.Println(`Type "exit" or press Ctrl-D to quit.`)
	fmt.Println()

	for {
		prompt := promptui.Prompt{Label: "you"}
		text, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		result, err := orch.HandleTurn(ctx, sess.ID, text)
		if err != nil {
			var transport *chat.TransportError
			if errors.As(err, &transport) {
				if verbose {
					fmt.Fprintf(os.Stderr, "%v\n", transport)
				}
				fmt.Printf("\nadvisor: %s\n\n", chat.Apology)
				continue
			}
			return err
		}

		if verbose && result.Query != "" {
			fmt.Fprintf(os.Stderr, "query: %s\n", result.Query)
			fmt.Fprintf(os.Stderr, "result: %s\n", result.Outcome.Text())
		}
		fmt.Printf("\nadvisor: %s\n\n", result.Answer.Text)
	}

	inTokens, outTokens, cost, calls := orch.Usage().Totals()
	if calls > 0 {
		fmt.Printf("\n%d model calls, %d input + %d output tokens", calls, inTokens, outTokens)
		if cost > 0 {
			fmt.Printf(", estimated cost $%.4f", cost)
		}
		fmt.Println()
	}
	return nil
}
