package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bokul-dev/folio/internal/chat"
	"github.com/bokul-dev/folio/internal/config"
	"github.com/bokul-dev/folio/internal/gemini"
	"github.com/bokul-dev/folio/internal/logging"
	"github.com/bokul-dev/folio/internal/ollama"
	"github.com/bokul-dev/folio/internal/openai"
	"github.com/bokul-dev/folio/internal/portfolio"
	"github.com/bokul-dev/folio/internal/providers"
)

// cfg is loaded once per invocation before any subcommand runs
var cfg *config.Config

func NewRootCmd() *cobra.Command {
	var configPath string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Portfolio dashboard and project editing tool",
		Long: `Folio manages the projects shown on a portfolio site.

It serves the dashboard API for paging, editing and ordering projects and their
images, and offers the same operations from the command line together with a
chat assistant backed by Gemini, OpenAI or Ollama.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := c.Finalize(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if logLevel != "" {
				level := logging.Level(logLevel)
				if err := level.Validate(); err != nil {
					return err
				}
				c.Merge(&config.Config{Logging: logging.Config{Level: level}})
			}

			logging.Setup(&c.Logging)
			cfg = c
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file (default folio.toml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newProjectsCmd())
	cmd.AddCommand(newChatCmd())

	return cmd
}

func newClient() *portfolio.Client {
	return portfolio.NewClient(cfg.API.URL, cfg.API.Token, cfg.API.TimeoutDuration())
}

func newProvider(name string) (providers.Provider, error) {
	switch name {
	case "gemini":
		return gemini.New(), nil
	case "openai":
		return openai.New(), nil
	case "ollama":
		return ollama.New(), nil
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", name)
	}
}

func newChatManager() (*chat.Manager, error) {
	provider, err := newProvider(cfg.Chat.Provider)
	if err != nil {
		return nil, err
	}

	model := cfg.Chat.Model
	if model == "" {
		model = providers.DefaultModel(cfg.Chat.Provider)
	}

	return chat.NewManager(provider, chat.Options{
		Model:       model,
		Temperature: cfg.Chat.Temperature,
		Path:        cfg.Chat.Store,
	})
}
