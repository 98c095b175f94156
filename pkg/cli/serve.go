package cli

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ofwtools/ofwmock/pkg/config"
	"github.com/ofwtools/ofwmock/pkg/fixture"
	"github.com/ofwtools/ofwmock/pkg/logging"
	"github.com/ofwtools/ofwmock/pkg/server"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// serveFlags holds all parsed command-line flags for the serve command.
type serveFlags struct {
	configFile    string
	dataDir       string
	port          int
	authToken     string
	strictAuth    bool
	corsOrigins   string
	watch         bool
	watchInterval time.Duration
	logLevel      string
	logFormat     string
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server (default command)",
	Example: `  # Serve fixtures from the default directory
  ofwmock serve

  # Serve a specific fixture export with strict token checking
  ofwmock serve --data-dir ./captures --strict-auth --auth-token s3cret

  # Reload automatically when the fixture files change
  ofwmock serve --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals)
	},
}

// addServeFlags registers the serve flag set. It is applied to both the
// root command and the serve subcommand so that a bare "ofwmock" accepts
// the same flags as "ofwmock serve".
func addServeFlags(fs *pflag.FlagSet, f *serveFlags) {
	fs.StringVarP(&f.configFile, "config", "c", "", "Path to YAML config file")
	fs.StringVar(&f.dataDir, "data-dir", config.DefaultDataDir, "Directory holding the fixture JSON files")
	fs.IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP listen port")
	fs.StringVar(&f.authToken, "auth-token", config.DefaultAuthToken, "Expected bearer token in strict mode")
	fs.BoolVar(&f.strictAuth, "strict-auth", false, "Require the bearer token to match exactly")
	fs.StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated CORS allowed origins")
	fs.BoolVar(&f.watch, "watch", false, "Reload automatically when fixture files change")
	fs.DurationVar(&f.watchInterval, "watch-interval", config.DefaultWatchInterval, "Fixture file polling interval")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(rootCmd.Flags(), &serveFlagVals)
	addServeFlags(serveCmd.Flags(), &serveFlagVals)
}

// resolveConfig merges configuration sources with the precedence
// flags > environment > config file > defaults.
func resolveConfig(cmd *cobra.Command, f *serveFlags) (*config.Config, error) {
	cfg := config.Default()

	if f.configFile != "" {
		loaded, err := config.LoadFile(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()

	fl := cmd.Flags()
	if fl.Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if fl.Changed("port") {
		cfg.Port = f.port
	}
	if fl.Changed("auth-token") {
		cfg.AuthToken = f.authToken
	}
	if fl.Changed("strict-auth") {
		cfg.StrictAuth = f.strictAuth
	}
	if fl.Changed("cors-origins") {
		cfg.CORSOrigins = splitOrigins(f.corsOrigins)
	}
	if fl.Changed("watch") {
		cfg.Watch = f.watch
	}
	if fl.Changed("watch-interval") {
		cfg.WatchInterval = f.watchInterval
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fl.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, f *serveFlags) error {
	// A .env next to the binary is picked up before the environment
	// is read; absence is not an error.
	_ = godotenv.Load()

	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})

	store := fixture.NewStore(cfg.DataDir, cfg.AuthToken, fixture.WithLogger(log))
	if err := store.Load(); err != nil {
		return err
	}

	srv := server.New(cfg, store, server.WithLogger(log))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		watcher := fixture.NewWatcher(cfg.DataDir, cfg.WatchInterval)
		events := watcher.Start()
		defer watcher.Stop()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-events:
					log.Info("fixture change detected", "file", ev.File, "type", ev.Type)
					if err := store.Reload(); err != nil {
						log.Error("auto-reload failed, keeping previous snapshot", "error", err)
					}
				}
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
