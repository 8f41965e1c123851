package integration

import (
	"net"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/clock"
	"github.com/danieljhkim/sidestatus/internal/daemon"
	"github.com/danieljhkim/sidestatus/internal/engine"
	"github.com/danieljhkim/sidestatus/internal/gitx"
	"github.com/danieljhkim/sidestatus/internal/mockd"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// testDaemon is a running mock daemon and its backing store.
type testDaemon struct {
	*mockd.Server
	Store *mockd.Store
}

// startDaemon runs the mock daemon on a free loopback port for the duration
// of the test.
func startDaemon(t *testing.T, cfg mockd.Config) *testDaemon {
	t.Helper()

	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}

	d := &testDaemon{}
	app := fxtest.New(t,
		fx.Supply(zap.NewNop()),
		mockd.Module(cfg),
		fx.Populate(&d.Server, &d.Store),
		fx.NopLogger,
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
	return d
}

// freeURL returns a loopback base URL with nothing listening on it.
func freeURL(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return "http://" + addr + "/api/v1"
}

func newClient(t *testing.T, baseURL string) *daemon.Client {
	t.Helper()

	client, err := daemon.NewClient(daemon.ClientConfig{
		BaseURL:        baseURL,
		ConnectTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient(%q) error = %v", baseURL, err)
	}
	return client
}

// setupTestEngine wires an engine to the daemon at baseURL with real git
// discovery and a fake clock.
func setupTestEngine(t *testing.T, baseURL string) (*engine.Engine, *clock.FakeClock) {
	t.Helper()

	clk := clock.NewFakeClock(testTime)
	return engine.New(newClient(t, baseURL), gitx.NewRealGitRepo(), clk, zap.NewNop()), clk
}

// initRepo creates a git repository in a temp dir and returns its root.
func initRepo(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	if _, err := git.PlainInit(root, false); err != nil {
		t.Fatalf("PlainInit: %v", err)
	}

	// Discovery reports the worktree root as the filesystem sees it; resolve
	// symlinked temp dirs (macOS /var -> /private/var) the same way.
	repo := gitx.NewRealGitRepo()
	discovered, err := repo.Discover(root)
	if err != nil {
		t.Fatalf("Discover(%s): %v", root, err)
	}
	return discovered
}
