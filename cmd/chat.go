package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/llm"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long:  "Reads one message per line from stdin. Type /reset to start over and /quit to leave.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		system, _ := cmd.Flags().GetString("system")

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		cfgLLM, err := llm.ConfigFromEnv()
		if err != nil {
			return err
		}
		if cfgLLM.Validate() != nil {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfgLLM = discovered
			}
		}
		a, err := assistant.NewFromConfig(ctx, cfgLLM, st.EventRepo(), assistant.Options{SystemMessage: system})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Chatting with the assistant. /reset starts over, /quit leaves.")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}

			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			case "/reset":
				a.Reset()
				fmt.Fprintln(out, "Conversation cleared.")
				continue
			}

			reply, err := a.Chat(ctx, line)
			if err != nil {
				if errors.Is(err, assistant.ErrEmptyMessage) {
					continue
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				continue
			}
			fmt.Fprintln(out, reply)
		}
	},
}

func init() {
	chatCmd.Flags().String("system", "", "System message for the conversation")
}
