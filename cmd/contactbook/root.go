package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"contactbook/internal/contact/models"
	"contactbook/internal/platform/config"
)

// rootOptions holds the persistent flags. Non-empty values override the
// config file and the environment.
type rootOptions struct {
	configPath string
	backend    string
	file       string
	logLevel   string
	today      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "contactbook",
		Short: "Personal contact book with birthday reminders",
		Long: `contactbook keeps named contacts with phone numbers and birthdays.

Without a subcommand it starts the interactive assistant. The directory is
loaded on start and saved when the session ends.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.StringVar(&opts.backend, "store", "", "storage backend: file, sql, redis or memory")
	flags.StringVar(&opts.file, "file", "", "directory file for the file backend")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.today, "today", "", "pin today's date as DD-MM-YYYY")

	root.AddCommand(
		newREPLCmd(opts),
		newBirthdaysCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// config resolves defaults, the YAML file, the environment and then flags.
func (o *rootOptions) config() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.backend != "" {
		cfg.Store.Backend = o.backend
	}
	if o.file != "" {
		cfg.Store.Path = o.file
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// pinnedToday parses --today; the zero time means wall-clock time.
func (o *rootOptions) pinnedToday() (time.Time, error) {
	if o.today == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, o.today)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q: use DD-MM-YYYY", o.today)
	}
	return t, nil
}
