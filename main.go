package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		envFile string
		host    string
		port    int
		root    string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:          "po-receiving-tool",
		Short:        "Serve a directory over HTTP for local development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, envFile, host, port, root, debug)
			if err != nil {
				return err
			}

			logger := newLogger(stderr, cfg.Debug)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return Run(ctx, cfg, stdout, logger)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file to load before reading STATIC_* variables")
	f.StringVar(&host, "host", "", "interface to bind (default all interfaces) [$"+envHost+"]")
	f.IntVarP(&port, "port", "p", defaultPort, "TCP port to listen on [$"+envPort+"]")
	f.StringVarP(&root, "root", "d", defaultRoot, "directory to serve [$"+envRoot+"]")
	f.BoolVar(&debug, "debug", false, "enable debug logging [$"+envDebug+"]")
	return cmd
}

// resolveConfig layers defaults, the env file, environment variables and
// explicitly set flags, in increasing priority.
func resolveConfig(cmd *cobra.Command, envFile, host string, port int, root string, debug bool) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}
	cfg, err := configFromEnv(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}

	f := cmd.Flags()
	if f.Changed("host") {
		cfg.Host = host
	}
	if f.Changed("port") {
		cfg.Port = port
	}
	if f.Changed("root") {
		cfg.Root = root
	}
	if f.Changed("debug") {
		cfg.Debug = debug
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
