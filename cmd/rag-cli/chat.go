package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bull/rag-assistant/internal/assistant"
)

var (
	chatSession string
	chatQuery   string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the assistant questions or book an interview",
	Long: `Without -q, starts an interactive session (type 'exit' to quit).
Conversation history and booking details are kept per --session.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "default_user", "conversation session id")
	chatCmd.Flags().StringVarP(&chatQuery, "query", "q", "", "single question (non-interactive mode)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if chatQuery != "" {
		answer, err := a.Assistant.Chat(ctx, chatQuery, chatSession)
		if err != nil {
			return err
		}
		printAnswer(out, answer)
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintln(out, "Banking Assistant - ask about bank documents or book an interview (type 'exit' to quit)")
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		answer, err := a.Assistant.Chat(ctx, query, chatSession)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printAnswer(out, answer)
	}
	return scanner.Err()
}

func printAnswer(w io.Writer, answer *assistant.Answer) {
	fmt.Fprintln(w, answer.Text)
	if sources := answer.UniqueSources(); len(sources) > 0 {
		fmt.Fprintf(w, "\nSources: %s\n", strings.Join(sources, ", "))
	}
}
