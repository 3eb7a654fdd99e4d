package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halloki/llamaup/internal/chat"
	"github.com/halloki/llamaup/internal/ollama"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat with a local model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if model, _ := cmd.Flags().GetString("model"); model != "" {
			cfg.Model = model
		}
		system, _ := cmd.Flags().GetString("system")
		maxHistory, _ := cmd.Flags().GetInt("max-history")

		client := ollama.NewClient(cfg.HostURL)
		if err := client.Heartbeat(cmd.Context()); err != nil {
			return fmt.Errorf("ollama service is not answering (run 'llamaup setup' first): %w", err)
		}

		conv := chat.New(client, chat.Config{
			Model:        cfg.Model,
			MaxHistory:   maxHistory,
			SystemPrompt: system,
		})

		fmt.Printf("Chatting with %s. Type your message (/help for commands, Ctrl+C to quit).\n\n", cfg.Model)
		return chatLoop(cmd, conv)
	},
}

func chatLoop(cmd *cobra.Command, conv *chat.Conversation) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			return nil
		}
		if handleChatCommand(input, conv) {
			continue
		}

		_, err := conv.SendStream(cmd.Context(), input, func(delta string) {
			fmt.Print(delta)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
			continue
		}
		fmt.Println()
		fmt.Println()
	}
}

// handleChatCommand processes REPL slash commands. Returns true if the
// input was a command.
func handleChatCommand(input string, conv *chat.Conversation) bool {
	switch input {
	case "/clear":
		conv.Clear()
		fmt.Println("History cleared.")
		return true

	case "/history":
		msgs := conv.History()
		if len(msgs) == 0 {
			fmt.Println("No messages yet.")
			return true
		}
		for _, m := range msgs {
			fmt.Printf("[%s] %s\n", m.Role, m.Content)
		}
		return true

	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /clear       - Clear conversation history")
		fmt.Println("  /history     - Show conversation history")
		fmt.Println("  /quit, /exit - Exit")
		return true
	}

	return false
}

func init() {
	chatCmd.Flags().String("model", "", "model to chat with")
	chatCmd.Flags().String("system", "", "system prompt")
	chatCmd.Flags().Int("max-history", 0, "max history messages to keep (0 = unlimited)")
	rootCmd.AddCommand(chatCmd)
}
