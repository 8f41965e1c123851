package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danieljhkim/sidestatus/internal/daemon"
)

func TestEngine_Watch(t *testing.T) {
	found := &daemon.WorkspaceList{Workspaces: []daemon.Workspace{{ID: "w1", LocalRepoDir: "/p"}}}
	empty := &daemon.WorkspaceList{Workspaces: []daemon.Workspace{}}

	t.Run("reports first result and changes only", func(t *testing.T) {
		script := []struct {
			list *daemon.WorkspaceList
			err  error
		}{
			{nil, errRefused},
			{nil, errRefused},
			{empty, nil},
			{found, nil},
			{found, nil},
			{nil, errStatus},
		}
		api := &fakeAPI{listFn: func(call int) (*daemon.WorkspaceList, error) {
			step := script[call-1]
			return step.list, step.err
		}}
		eng, clk := newTestEngine(api, nil)

		var seen []Kind
		err := eng.Watch(context.Background(), &WatchRequest{
			StatusRequest: StatusRequest{ProjectPath: "/p"},
			Interval:      5 * time.Second,
			Count:         len(script),
		}, func(res *StatusResult) error {
			seen = append(seen, res.Kind)
			return nil
		})
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}

		want := []Kind{DaemonUnavailable, NoWorkspace, WorkspaceFound, DaemonUnavailable}
		if len(seen) != len(want) {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
		for i := range want {
			if seen[i] != want[i] {
				t.Errorf("seen[%d] = %v, want %v", i, seen[i], want[i])
			}
		}

		if api.listCalls != len(script) {
			t.Errorf("ListWorkspaces called %d times, want %d", api.listCalls, len(script))
		}
		if waits := clk.Waits(); len(waits) != len(script)-1 {
			t.Errorf("waited %d times, want %d", len(waits), len(script)-1)
		}
	})

	t.Run("stops on cancel", func(t *testing.T) {
		api := &fakeAPI{listFn: listing()}
		eng, _ := newTestEngine(api, nil)
		ctx, cancel := context.WithCancel(context.Background())

		calls := 0
		err := eng.Watch(ctx, &WatchRequest{
			StatusRequest: StatusRequest{ProjectPath: "/p"},
			Interval:      time.Second,
		}, func(res *StatusResult) error {
			calls++
			cancel()
			return nil
		})
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}
		if calls != 1 {
			t.Errorf("onChange called %d times, want 1", calls)
		}
	})

	t.Run("callback error stops the watch", func(t *testing.T) {
		eng, _ := newTestEngine(&fakeAPI{}, nil)

		err := eng.Watch(context.Background(), &WatchRequest{Interval: time.Second}, func(*StatusResult) error {
			return errBoom
		})
		if !errors.Is(err, errBoom) {
			t.Errorf("Watch() error = %v, want errBoom", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		eng, _ := newTestEngine(&fakeAPI{}, nil)
		noop := func(*StatusResult) error { return nil }

		if err := eng.Watch(context.Background(), &WatchRequest{}, noop); !errors.Is(err, ErrValidation) {
			t.Errorf("zero interval error = %v", err)
		}
		if err := eng.Watch(context.Background(), &WatchRequest{Interval: time.Second, Count: -1}, noop); !errors.Is(err, ErrValidation) {
			t.Errorf("negative count error = %v", err)
		}
	})
}
