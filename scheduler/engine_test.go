package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type flakyModule struct {
	failures int32
	runs     int32
}

func (m *flakyModule) RunModule(ctx context.Context) error {
	if atomic.AddInt32(&m.runs, 1) <= m.failures {
		return errors.New("boom")
	}
	<-ctx.Done()
	return nil
}

func (m *flakyModule) Name() string {
	return "flaky"
}

func TestEngineRestartsFailedModules(t *testing.T) {
	GracefulRetryDelay = 10 * time.Millisecond
	m := &flakyModule{failures: 2}
	engine := NewEngine([]Module{m}, context.Background(), NewEventBus())

	done := make(chan struct{})
	go func() {
		engine.Run()
		close(done)
	}()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&m.runs) == 3 }, 5*time.Second, 5*time.Millisecond)
	engine.Shutdown()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestRunModuleStopsRetryingWhenCancelled(t *testing.T) {
	GracefulRetryDelay = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	m := &flakyModule{failures: 100}

	done := make(chan struct{})
	go func() {
		RunModuleWithGracefulRestart(ctx, m)
		close(done)
	}()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&m.runs) == 1 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("module kept retrying")
	}
}
