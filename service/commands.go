package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"zettaboard/app/config"
	"zettaboard/app/logger"
	"zettaboard/app/repositories"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type rootFlags struct {
	configDir string
	verbose   bool
}

// NewRootCommand builds the zettaboard command tree.
func NewRootCommand(version string) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "zettaboard",
		Short:         "Admin dashboard over the JSONPlaceholder mock API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configDir, "config", "./config", "directory holding config.yaml")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCommand(flags),
		newVersionCommand(version),
		newConfigCommand(flags),
		newCacheCommand(flags),
	)
	return root
}

func (f *rootFlags) load() (*config.Config, error) {
	return config.Load(f.configDir)
}

func newServeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Env, flags.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			app, err := NewApp(cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := app.Run(ctx); err != nil {
				log.Error("Server stopped", zap.Error(err))
				return err
			}
			log.Info("Server stopped")
			return nil
		},
	}
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zettaboard version %s\n", version)
		},
	}
}

func newConfigCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newCacheCommand(flags *rootFlags) *cobra.Command {
	var yes bool
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the badger store (response cache, sessions, preferences)",
	}
	cache.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	withPath := func(run func(cmd *cobra.Command, dbPath string, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return run(cmd, cfg.Storage.Path, args)
		}
	}

	cache.AddCommand(
		&cobra.Command{
			Use:   "clean",
			Short: "Delete the database",
			Args:  cobra.NoArgs,
			RunE: withPath(func(cmd *cobra.Command, dbPath string, _ []string) error {
				return clean(cmd, dbPath, yes)
			}),
		},
		&cobra.Command{
			Use:   "init",
			Short: "Initialize a new empty database",
			Args:  cobra.NoArgs,
			RunE: withPath(func(cmd *cobra.Command, dbPath string, _ []string) error {
				return initDb(cmd, dbPath)
			}),
		},
		&cobra.Command{
			Use:   "backup",
			Short: "Create a backup of the database",
			Args:  cobra.NoArgs,
			RunE: withPath(func(cmd *cobra.Command, dbPath string, _ []string) error {
				_, err := backup(cmd, dbPath)
				return err
			}),
		},
		&cobra.Command{
			Use:   "restore <file>",
			Short: "Restore the database from a backup",
			Args:  cobra.ExactArgs(1),
			RunE: withPath(func(cmd *cobra.Command, dbPath string, args []string) error {
				return restore(cmd, dbPath, args[0], yes)
			}),
		},
	)
	return cache
}

// clean removes the database.
func clean(cmd *cobra.Command, dbPath string, yes bool) error {
	out := cmd.OutOrStdout()
	if !exists(dbPath) {
		fmt.Fprintln(out, "Database is already clean (does not exist)")
		return nil
	}
	if !yes && !confirm(cmd.InOrStdin(), out, "Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}
	if err := os.RemoveAll(dbPath); err != nil {
		return fmt.Errorf("failed to clean database: %w", err)
	}
	fmt.Fprintln(out, "Database cleaned successfully")
	return nil
}

// initDb initializes a new empty database.
func initDb(cmd *cobra.Command, dbPath string) error {
	out := cmd.OutOrStdout()
	if exists(dbPath) {
		fmt.Fprintln(out, "Database already exists. Use 'cache clean' first if you want to reinitialize.")
		return nil
	}
	store, err := openStore(config.Storage{Path: dbPath})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := store.Close(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Database initialized successfully")
	return nil
}

// backup writes a full backup next to the database and returns its path.
func backup(cmd *cobra.Command, dbPath string) (string, error) {
	out := cmd.OutOrStdout()
	if !exists(dbPath) {
		fmt.Fprintln(out, "No database exists to backup")
		return "", nil
	}

	dir := backupDir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	store, err := repositories.NewStore(dbPath)
	if err != nil {
		return "", err
	}
	defer store.Close()

	backupFile := filepath.Join(dir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := store.Backup(f); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	fmt.Fprintf(out, "Database backed up successfully to %s\n", backupFile)
	return backupFile, nil
}

// restore replaces the database with the contents of backupFile.
func restore(cmd *cobra.Command, dbPath, backupFile string, yes bool) error {
	out := cmd.OutOrStdout()
	fi, err := os.Stat(backupFile)
	if err != nil {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if exists(dbPath) {
		if !yes && !confirm(cmd.InOrStdin(), out, "Existing database found. Do you want to replace it?") {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(dbPath); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	store, err := openStore(config.Storage{Path: dbPath})
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return store.Restore(f)
	}()
	if err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}

	fmt.Fprintln(out, "Database restored successfully")
	return nil
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}
