package main

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/CTAG07/pasties/pkg/bbcode"
	"github.com/CTAG07/pasties/pkg/pasty"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	config     *Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pasties",
		Short:         "Render pasty snippets into a static page",
		Long:          `Render user-authored text snippets into editable, copyable blocks on a static HTML page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "./config.json", "config file")

	root.AddCommand(
		a.buildCmd(),
		a.watchCmd(),
		a.importCmd(),
		sanitizeCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) load() error {
	config, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.config = config
	return nil
}

func (a *app) newBuilder(cmd *cobra.Command) (*Builder, func(), error) {
	if err := a.load(); err != nil {
		return nil, nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), a.config.Build.LogLevel)

	source, closeSource, err := openSource(a.config.Build)
	if err != nil {
		return nil, nil, err
	}
	b, err := NewBuilder(a.config, logger, source)
	if err != nil {
		closeSource()
		return nil, nil, err
	}
	return b, closeSource, nil
}

func (a *app) buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Render the pasties page once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, closeSource, err := a.newBuilder(cmd)
			if err != nil {
				return err
			}
			defer closeSource()

			n, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rendered %d pasties to %s\n", n, a.config.Build.OutputPath)
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Render the page and rebuild it whenever its inputs change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, closeSource, err := a.newBuilder(cmd)
			if err != nil {
				return err
			}
			defer closeSource()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if _, err = b.Build(ctx); err != nil {
				b.logger.Error("Initial build failed, waiting for changes", "error", err)
			}
			debounce := time.Duration(a.config.Build.WatchDebounceMs) * time.Millisecond
			return watch(ctx, b, newWatchTargets(a.config.Build), debounce, b.logger)
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	var appendRows bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON or YAML pasty file into the SQLite store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			pasties, err := pasty.LoadFile(args[0])
			if err != nil {
				return err
			}

			store, closeStore, err := openStore(a.config.Build.DatabasePath)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			if appendRows {
				err = store.InsertAll(ctx, pasties)
			} else {
				err = store.Replace(ctx, pasties)
			}
			if err != nil {
				return err
			}
			total, err := store.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d pasties (%d stored)\n", len(pasties), total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&appendRows, "append", false, "keep existing pasties and append after them")
	return cmd
}

func sanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [text...]",
		Short: "Print the sanitized markup for text, or for stdin when no text is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				raw = string(data)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), bbcode.Sanitize(raw))
			return err
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pasties %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		},
	}
}
