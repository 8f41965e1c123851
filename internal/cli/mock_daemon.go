package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/daemon"
	"github.com/danieljhkim/sidestatus/internal/logger"
	"github.com/danieljhkim/sidestatus/internal/mockd"
)

var (
	mockAddr       string
	mockWorkspaces []string
	mockFailStatus int
)

var mockDaemonCmd = &cobra.Command{
	Use:   "mock-daemon",
	Short: "Run a stand-in Side daemon for local testing",
	Long: `Serve the parts of the Side daemon API that sidestatus uses, backed by
an in-memory store.

Seed workspaces with --workspace ID=DIR (repeatable). --fail-status makes the
workspace list endpoint answer with that HTTP status. Task routes are always
served.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seeds, err := parseWorkspaceSeeds(mockWorkspaces)
		if err != nil {
			return err
		}
		if mockFailStatus != 0 && (mockFailStatus < 100 || mockFailStatus > 599) {
			return fmt.Errorf("invalid --fail-status %d", mockFailStatus)
		}

		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		level := "info"
		if verbose {
			level = "debug"
		}
		log := logger.New(logger.Options{Level: level, Development: cfg.Log.Development})
		defer func() { _ = log.Sync() }()

		var srv *mockd.Server
		app := fx.New(
			fx.Supply(log),
			fx.Decorate(func(l *zap.Logger) *zap.Logger {
				return l.With(zap.String("service", "mock-daemon"))
			}),
			mockd.Module(mockd.Config{
				Addr:       mockAddr,
				FailStatus: mockFailStatus,
				Workspaces: seeds,
			}),
			fx.Populate(&srv),
			fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
				return &fxevent.ZapLogger{Logger: l}
			}),
		)

		startCtx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		if err := app.Start(startCtx); err != nil {
			return fmt.Errorf("failed to start mock daemon: %w", err)
		}

		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Mock daemon listening on %s", srv.BaseURL()))

		<-cmd.Context().Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return app.Stop(stopCtx)
	},
}

// parseWorkspaceSeeds parses ID=DIR pairs into workspace records.
func parseWorkspaceSeeds(values []string) ([]daemon.Workspace, error) {
	seeds := make([]daemon.Workspace, 0, len(values))
	for _, v := range values {
		id, dir, ok := strings.Cut(v, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" || dir == "" {
			return nil, fmt.Errorf("invalid --workspace %q: want ID=DIR", v)
		}
		seeds = append(seeds, daemon.Workspace{
			ID:           id,
			Name:         id,
			LocalRepoDir: dir,
		})
	}
	return seeds, nil
}

func init() {
	mockDaemonCmd.Flags().StringVar(&mockAddr, "addr", mockd.DefaultAddr, "Listen address")
	mockDaemonCmd.Flags().StringArrayVar(&mockWorkspaces, "workspace", nil, "Seed a workspace as ID=DIR (repeatable)")
	mockDaemonCmd.Flags().IntVar(&mockFailStatus, "fail-status", 0, "Answer the workspace list with this HTTP status")
}
