package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/tally/internal/cli"
	"github.com/studiowebux/tally/internal/config"
	"github.com/studiowebux/tally/internal/keybinds"
	"github.com/studiowebux/tally/internal/logging"
	"github.com/studiowebux/tally/internal/storage"
	"github.com/studiowebux/tally/internal/tui"
	"github.com/studiowebux/tally/internal/version"
)

// Loaded by the root PersistentPreRunE
var (
	settings config.Settings
	logger   = zap.NewNop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "tally - a counter that remembers every change",
	Long: `tally is a counter with a history, an adjustable step and live sync
between every instance that shares the same storage.

Run without arguments to start the TUI, or use a subcommand to script it.

Examples:
  tally                       # Start interactive TUI
  tally inc -n 3              # Add the step three times
  tally step 5                # Set the step to 5
  tally step random           # Pick a step between 1 and 10
  tally history -o csv        # Print the history as CSV
  tally history -q "[].value" # Query the history with JMESPath
  tally export -o out.csv     # Save the history to a file
  tally import out.csv        # Replace the history from a file
  tally --backend sqlite      # Use the SQLite store for this run`,
	Version:           version.Version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the value, step and history size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(r *cli.Runner) error {
			return r.Show(flagOutput)
		})
	},
}

var incCmd = &cobra.Command{
	Use:   "inc",
	Short: "Add the step to the value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(r *cli.Runner) error {
			return r.Increment(cmd.Context(), flagTimes)
		})
	},
}

var decCmd = &cobra.Command{
	Use:   "dec",
	Short: "Subtract the step from the value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(r *cli.Runner) error {
			return r.Decrement(cmd.Context(), flagTimes)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set the value to 0",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(r *cli.Runner) error {
			return r.Reset(cmd.Context())
		})
	},
}

var stepCmd = &cobra.Command{
	Use:   "step [VALUE|random|reset]",
	Short: "Change the step",
	Long: `Change the step. Values outside 0-100 are clamped and reported.

Without an argument on a terminal, a list of presets is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(r *cli.Runner) error {
			if len(args) == 1 {
				return r.SetStep(cmd.Context(), args[0])
			}
			if !cli.IsInteractive() {
				return r.Show(cli.FormatText)
			}
			choice, err := cli.PromptForStep(r.State().Step)
			if err != nil {
				return err
			}
			return r.SetStep(cmd.Context(), choice)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print or clear the history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(r *cli.Runner) error {
			if flagClear {
				return r.ClearHistory(cmd.Context())
			}
			if flagQuery != "" {
				return r.QueryHistory(flagQuery)
			}
			return r.History(flagOutput)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE.csv",
	Short: "Replace the history with the rows of a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(r *cli.Runner) error {
			return r.Import(cmd.Context(), args[0])
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the history as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(r *cli.Runner) error {
			if flagExportFile == "" {
				return r.Export(cmd.Context(), cmd.OutOrStdout())
			}

			f, err := os.OpenFile(flagExportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.FilePermissions)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", flagExportFile, err)
			}
			if err := r.Export(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "History written to %s\n", flagExportFile)
			return nil
		})
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Validate keybinds.json or create it from the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := keybinds.GetDefaultConfigPath()
		out := cmd.OutOrStdout()

		if flagInit {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := keybinds.CreateExampleConfig(path); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(out, "Created %s\n", path)
			return nil
		}

		cfg, err := keybinds.LoadConfig(path)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(out, "No %s, using defaults (run 'tally keybinds --init' to create one)\n", path)
			return nil
		}
		if err != nil {
			return err
		}
		result := keybinds.NewValidator().ValidateConfig(cfg)
		fmt.Fprintln(out, result.String())
		if result.HasErrors() {
			return fmt.Errorf("%s has errors", path)
		}
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the effective settings or create settings.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if flagInit {
			if _, err := os.Stat(config.SettingsFile); err == nil {
				return fmt.Errorf("%s already exists", config.SettingsFile)
			}
			if err := config.SaveSettings(config.SettingsFile, config.DefaultSettings()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", config.SettingsFile)
			return nil
		}

		data, err := yaml.Marshal(settings)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# %s\n%s", config.GetSettingsFilePath(), data)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and optionally check for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tally %s\n", version.Version)
		if !flagCheck {
			return nil
		}

		update, err := version.NewChecker().Check(cmd.Context(), version.Version)
		if err != nil {
			return err
		}
		if update.Available {
			fmt.Fprintf(out, "A newer release is available: %s\n%s\n", update.Latest, update.URL)
		} else {
			fmt.Fprintln(out, "You are on the latest release")
		}
		return nil
	},
}

// Flags
var (
	flagBackend    string
	flagKey        string
	flagOutput     string
	flagTimes      int
	flagClear      bool
	flagQuery      string
	flagExportFile string
	flagInit       bool
	flagCheck      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend (file/sqlite)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "key", "", "Storage key, one counter per key")

	showCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml)")
	historyCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml/csv)")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Clear the history, keeping the value")
	historyCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath expression over the history (e.g. \"[?delta < `0`]\")")

	incCmd.Flags().IntVarP(&flagTimes, "times", "n", 1, "Number of increments")
	decCmd.Flags().IntVarP(&flagTimes, "times", "n", 1, "Number of decrements")

	exportCmd.Flags().StringVarP(&flagExportFile, "output", "o", "", "Write to FILE instead of stdout")
	keybindsCmd.Flags().BoolVar(&flagInit, "init", false, "Write the default bindings to keybinds.json")
	settingsCmd.Flags().BoolVar(&flagInit, "init", false, "Write the default settings.yaml")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Ask the release feed for a newer version")

	rootCmd.AddCommand(showCmd, incCmd, decCmd, resetCmd, stepCmd, historyCmd,
		importCmd, exportCmd, keybindsCmd, settingsCmd, versionCmd)
}

// setup loads configuration and the logger before any command runs
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	s, err := config.LoadSettings(config.GetSettingsFilePath())
	if err != nil {
		return err
	}
	if flagBackend != "" && flagBackend != s.Storage.Backend {
		s.Storage.Backend = flagBackend
		s.Storage.Path = defaultStoragePath(flagBackend)
	}
	if flagKey != "" {
		s.Storage.Key = flagKey
	}
	if err := s.Validate(); err != nil {
		return err
	}
	settings = s

	l, err := logging.New(settings.Log)
	if err != nil {
		return err
	}
	logger = l.With(zap.String("command", cmd.Name()))
	logger.Debug("starting",
		zap.String("version", version.Version),
		zap.String("backend", settings.Storage.Backend),
		zap.String("key", settings.Storage.Key),
	)
	return nil
}

func defaultStoragePath(backend string) string {
	if backend == config.BackendSQLite {
		return config.DatabasePath
	}
	return config.StateDir
}

func openStore() (storage.Store, error) {
	store, err := storage.Open(settings.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", settings.Storage.Backend, err)
	}
	return store, nil
}

// withRunner opens the store, runs fn and closes the store
func withRunner(cmd *cobra.Command, fn func(r *cli.Runner) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := cli.NewRunner(cmd.Context(), store, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	return fn(r)
}

// runTUI starts the interactive TUI
func runTUI(cmd *cobra.Command) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	registry, err := keybinds.LoadOrDefault(keybinds.GetDefaultConfigPath())
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), tui.Options{
		Store:     store,
		Keybinds:  registry,
		Logger:    logger,
		AltScreen: settings.UI.AltScreen,
	})
}
