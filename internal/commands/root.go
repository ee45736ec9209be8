package commands

import (
	"github.com/spf13/cobra"

	"github.com/fatali-fataliyev/club_treasury/internal/auth"
	"github.com/fatali-fataliyev/club_treasury/internal/budget"
	"github.com/fatali-fataliyev/club_treasury/internal/config"
	"github.com/fatali-fataliyev/club_treasury/internal/storage"
)

type rootOptions struct {
	configPath string
	dataDir    string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "club_treasury",
		Short: "Member finance portal for the club treasury",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding the CSV snapshots")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newPhonesCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))

	return rootCmd
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
	}
	return cfg, nil
}

type app struct {
	treasury *budget.Treasury
	registry *auth.Registry
	sessions *storage.InMemorySessionStore
}

func newApp(cfg *config.Config) *app {
	source := storage.NewDirSource(cfg.Data.Dir)
	sessions := storage.NewInMemorySessionStore()
	registry := auth.NewRegistry(sessions, cfg.Session.TTL)

	treasury := budget.NewTreasury(
		auth.NewAllowlist(source, cfg.Data.AllowedPhonesFile),
		registry,
		budget.NewLedger(source, cfg.Data.TransactionsFile),
	)
	return &app{
		treasury: treasury,
		registry: registry,
		sessions: sessions,
	}
}
