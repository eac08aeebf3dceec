package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reverseip/internal/config"
	"reverseip/internal/logging"
)

// Version is set at build time.
var Version = "dev"

type globalFlags struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

// SetupCmd creates the root command with all subcommands registered.
func SetupCmd(version string) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "reverseip",
		Short: "Caller IP and reverse pointer diagnostic server",
		Long: `reverseip serves a diagnostic page showing the caller's IP address, its
in-addr.arpa / ip6.arpa reverse pointer name, connection details and request
headers. Running without a subcommand starts the server.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &flags)
		},
	}
	cmd.Version = version

	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "log format: json, text")

	cmd.AddCommand(NewServeCmd(&flags))
	cmd.AddCommand(NewInspectCmd())
	return cmd
}

// NewServeCmd creates the explicit serve subcommand.
func NewServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
}

func runServe(ctx context.Context, flags *globalFlags) error {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.LogFormat = flags.LogFormat
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	srv, err := NewServer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

func main() {
	cmd := SetupCmd(Version)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
