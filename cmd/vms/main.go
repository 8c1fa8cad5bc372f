package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/vms-predict/internal/common"
	"github.com/Veraticus/vms-predict/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries per-invocation state shared by every command.
type app struct {
	v        *viper.Viper
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	cfgFile  string
	settings config.Settings
}

// localFlags maps command flags to the settings they override. Bindings are
// made for the executing command only, so commands sharing a flag name do not
// shadow each other.
var localFlags = map[string]string{
	"strict":         config.KeyStrict,
	"fallback-rules": config.KeyFallbackRules,
	"no-cache":       config.KeyNoCache,
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr, logger: common.Discard()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:   "vms",
		Short: "🔧 Vehicle maintenance category prediction",
		Long: `vms predicts the maintenance category of a vehicle service request
using a trained model artifact.

Results are written to stdout as a single JSON object; logs go to stderr.`,
		PersistentPreRunE: a.initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return a.fail(common.ErrUsage, err, exitUsage)
	})

	// Global flags
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/vms/config.yaml)")
	root.PersistentFlags().String("log-level", "error", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")
	root.PersistentFlags().String("db", "", "prediction history and cache database (disabled when empty)")

	_ = a.v.BindPFlag(config.KeyLogLevel, root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, root.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyStoragePath, root.PersistentFlags().Lookup("db"))

	root.AddCommand(a.predictCmd())
	root.AddCommand(a.batchCmd())
	root.AddCommand(a.inspectCmd())
	root.AddCommand(a.historyCmd())
	root.AddCommand(a.versionCmd())
	return root
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down")
		cancel()
	}()

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	cancel()

	var exitErr *common.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(common.ExitCode(err))
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	for name, key := range localFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = a.v.BindPFlag(key, f)
		}
	}

	// Set up config file
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(fmt.Sprintf("%s/.config/vms", home))
		}
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	// Environment variables, e.g. VMS_STORAGE_PATH
	a.v.SetEnvPrefix("VMS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	settings, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	a.settings = settings

	logger, err := common.NewLogger(a.stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger
	slog.SetDefault(logger)
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "vms %s\n", version)
		},
	}
}
