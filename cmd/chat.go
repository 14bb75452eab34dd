package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bokul-dev/folio/internal/chat"
	"github.com/bokul-dev/folio/internal/providers"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the portfolio chat assistant",
		Long: `Chat sessions are kept in the configured store file (default chat_sessions.yaml)
so a conversation can be continued across runs.`,
	}

	cmd.AddCommand(newChatSendCmd())
	cmd.AddCommand(newChatSessionsCmd())
	cmd.AddCommand(newChatNewCmd())
	cmd.AddCommand(newChatRenameCmd())
	cmd.AddCommand(newChatDeleteCmd())
	cmd.AddCommand(newChatHistoryCmd())
	cmd.AddCommand(newChatClearCmd())

	return cmd
}

func newChatSendCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send a message to the current session",
		Example: `  folio chat send "Suggest a tagline for a Go CLI project"
  folio chat send --session default "And a shorter one?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newChatManager()
			if err != nil {
				return err
			}
			if session == "" {
				session = m.Current()
			}

			reply, err := m.Send(cmd.Context(), session, strings.Join(args, " "))
			fmt.Println(reply.Content)
			return err
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "Session id (defaults to the current session)")
	return cmd
}

func newChatSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List chat sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newChatManager()
			if err != nil {
				return err
			}

			current := m.Current()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tNAME\tMESSAGES\tCREATED")
			for _, s := range m.List() {
				marker := ""
				if s.ID == current {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", marker, s.ID, s.Name, len(s.Messages), s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newChatNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new [name]",
		Short: "Start a new session and make it current",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newChatManager()
			if err != nil {
				return err
			}
			s, err := m.Create()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := m.Rename(s.ID, args[0]); err != nil {
					return err
				}
			}
			fmt.Println(s.ID)
			return nil
		},
	}
}

func newChatRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a session; a blank name resets it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newChatManager()
			if err != nil {
				return err
			}
			return m.Rename(args[0], args[1])
		},
	}
}

func newChatDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newChatManager()
			if err != nil {
				return err
			}
			current, err := m.Delete(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %s, current session is %s\n", args[0], current)
			return nil
		},
	}
}

func newChatClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [id]",
		Short: "Remove every message from a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newChatManager()
			if err != nil {
				return err
			}
			return m.Clear(sessionArg(m, args))
		},
	}
}

func newChatHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [id]",
		Short: "Print the messages of a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newChatManager()
			if err != nil {
				return err
			}
			s, err := m.Get(sessionArg(m, args))
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", s.Name, s.ID)
			fmt.Println(strings.Repeat("=", 80))
			for _, msg := range s.Messages {
				who := "You"
				if msg.Role == providers.RoleAssistant {
					who = "Assistant"
				}
				fmt.Printf("[%s] %s:\n%s\n\n", msg.Timestamp.Format("15:04"), who, msg.Content)
			}
			return nil
		},
	}
}

func sessionArg(m *chat.Manager, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return m.Current()
}
