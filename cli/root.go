// Package cli wires configuration, logging, the backend and the terminal UI behind the
// lazyfs command.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jesspatton/lazyfs/config"
	"github.com/spf13/cobra"
)

type ctxKey string

const appCtxKey ctxKey = "appConfig"

// flags are the command-line overrides. Only flags the user set override the config.
type flags struct {
	backend      string
	remoteURL    string
	treeFile     string
	noRootDelete bool
	noConfirm    bool
	noWatch      bool
	ignore       []string
	logFile      string
	logLevel     string
	openCommand  string
	print        bool
}

// NewRootCommand builds the lazyfs command.
func NewRootCommand() *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:           "lazyfs [path]",
		Short:         "lazyfs is a terminal file explorer",
		Long:          `lazyfs shows a directory, a tree file or a remote file server as an expandable tree with per-row actions: create directories, upload files, copy paths and delete entries.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			root, err := rootPath(args)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd, root, f)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), appCtxKey, &appConfig{Config: cfg, Root: root}))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppConfig(cmd)
			if app == nil {
				return fmt.Errorf("configuration not loaded")
			}
			if f.print {
				return printTree(cmd.Context(), cmd.OutOrStdout(), app)
			}
			return runUI(app)
		},
	}

	fl := rootCmd.Flags()
	fl.StringVar(&f.backend, "backend", "", "Backend to browse: local, remote or memory")
	fl.StringVar(&f.remoteURL, "remote", "", "Base URL of a remote file server (implies --backend remote)")
	fl.StringVar(&f.treeFile, "tree", "", "YAML or JSON tree description (implies --backend memory)")
	fl.BoolVar(&f.noRootDelete, "no-root-delete", false, "Hide the delete action on root-level directories")
	fl.BoolVar(&f.noConfirm, "no-confirm", false, "Delete without asking for confirmation")
	fl.BoolVar(&f.noWatch, "no-watch", false, "Do not reload the tree on file system changes")
	fl.StringSliceVar(&f.ignore, "ignore", nil, "Extra ignore patterns (doublestar globs)")
	fl.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fl.StringVar(&f.openCommand, "open", "", `Command run for opened files, e.g. "code <path>"`)
	fl.BoolVar(&f.print, "print", false, "Print the fully expanded tree and exit")

	return rootCmd
}

// appConfig is the loaded configuration plus the directory lazyfs was started in.
type appConfig struct {
	config.Config
	Root string
}

func getAppConfig(cmd *cobra.Command) *appConfig {
	if v := cmd.Context().Value(appCtxKey); v != nil {
		if app, ok := v.(*appConfig); ok {
			return app
		}
	}
	return nil
}

func rootPath(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// loadConfig reads the configuration for root and applies the flags the user set.
func loadConfig(cmd *cobra.Command, root string, f flags) (config.Config, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("tree") {
		cfg.TreeFile = f.treeFile
		cfg.Backend = config.BackendMemory
	}
	if changed("remote") {
		cfg.RemoteURL = f.remoteURL
		cfg.Backend = config.BackendRemote
	}
	if changed("backend") {
		cfg.Backend = f.backend
	}
	if changed("no-root-delete") {
		cfg.RootDirsDeletable = !f.noRootDelete
	}
	if changed("no-confirm") {
		cfg.ConfirmDelete = !f.noConfirm
	}
	if changed("no-watch") {
		cfg.Watch = !f.noWatch
	}
	if changed("ignore") {
		cfg.Ignore = append(cfg.Ignore, f.ignore...)
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("open") {
		cfg.OpenCommand = f.openCommand
	}

	return cfg, cfg.Validate()
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lazyfs: %v\n", err)
		os.Exit(1)
	}
}
