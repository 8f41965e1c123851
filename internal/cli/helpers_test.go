package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/clock"
	"github.com/danieljhkim/sidestatus/internal/config"
	"github.com/danieljhkim/sidestatus/internal/mockd"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// executeCommand runs the root command with args and returns what it wrote
// to stdout. Flags are reset first because cobra keeps them between runs.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	if os.Getenv(config.RootEnvKey) == "" {
		t.Setenv(config.RootEnvKey, t.TempDir())
	}
	color.NoColor = true

	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// startDaemon serves a mock daemon for the duration of the test and returns
// its store and API base URL.
func startDaemon(t *testing.T, cfg mockd.Config) (*mockd.Store, string) {
	t.Helper()

	store := mockd.NewStore(clock.NewFakeClock(testTime))
	for _, ws := range cfg.Workspaces {
		store.Seed(ws)
	}
	srv := httptest.NewServer(mockd.NewServer(cfg, store, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return store, srv.URL + "/api/v1"
}

// deadDaemonURL returns a base URL nothing is listening on.
func deadDaemonURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(nil)
	url := srv.URL + "/api/v1"
	srv.Close()
	return url
}
