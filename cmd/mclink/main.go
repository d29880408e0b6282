package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Versifine/mclink/internal/config"
	"github.com/Versifine/mclink/internal/logger"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	logFile    string

	logCloser io.Closer
}

func main() {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "mclink",
		Short: "Minecraft Java Edition protocol client",
		Long: `mclink speaks the Minecraft Java Edition protocol (1.11.2, protocol 316).

It can query a server's status, or log in and relay chat between the
terminal and the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logCloser != nil {
				_ = opts.logCloser.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (.yaml or .toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: auto, console, text, json")
	flags.StringVar(&opts.logFile, "log-file", "", "append logs to this file")

	rootCmd.AddCommand(
		statusCmd(opts),
		connectCmd(opts),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// load reads the config and installs the logger. Flags override the file.
func (o *rootOptions) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if o.logFile != "" {
		cfg.Logging.File = o.logFile
	}

	o.logCloser, err = logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
		File:   cfg.Logging.File,
	})
	if err != nil {
		slog.Warn("Failed to open log file, logging to stderr", "error", err)
	}
	return cfg, nil
}

// applyAddress lets a positional host[:port] replace the configured server.
func applyAddress(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 {
		if err := cfg.SetServer(args[0]); err != nil {
			return "", err
		}
	}
	return cfg.Address()
}
