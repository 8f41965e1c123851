package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/clock"
	"github.com/danieljhkim/sidestatus/internal/config"
	"github.com/danieljhkim/sidestatus/internal/daemon"
	"github.com/danieljhkim/sidestatus/internal/engine"
	"github.com/danieljhkim/sidestatus/internal/fsops"
	"github.com/danieljhkim/sidestatus/internal/gitx"
	"github.com/danieljhkim/sidestatus/internal/logger"
)

// ExitError asks main to exit with Code without printing anything more.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// loadConfig resolves the effective configuration: defaults, then
// config.yaml, then environment, then command-line flags.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	cfg, err := config.Load(fsops.NewRealFS(), paths.Config)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	if flagChanged(flags, "base-url") {
		cfg.BaseURL = baseURL
	}
	if flagChanged(flags, "connect-timeout") {
		cfg.ConnectTimeout = connectTimeout
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

// newLogger builds the process logger from cfg. Logs go to stderr so that
// stdout stays parseable.
func newLogger(cfg *config.Config) *zap.Logger {
	return logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(cmd *cobra.Command) (*engine.Engine, *zap.Logger, error) {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	log := newLogger(cfg)

	client, err := daemon.NewClient(daemon.ClientConfig{
		BaseURL:        cfg.BaseURL,
		ConnectTimeout: cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Debug("daemon client ready",
		zap.String("baseURL", client.BaseURL()),
		zap.Duration("connectTimeout", cfg.ConnectTimeout),
	)

	return engine.New(client, gitx.NewRealGitRepo(), &clock.RealClock{}, log), log, nil
}

// projectArgs returns the explicit project path and working directory to
// use for a request. With --no-project both are empty.
func projectArgs() (project, cwd string, err error) {
	if noProject {
		return "", "", nil
	}
	if projectPath != "" {
		return projectPath, "", nil
	}
	cwd, err = os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return "", cwd, nil
}

// FormatError formats an error for display.
func FormatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
