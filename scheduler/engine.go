package scheduler

import (
	"context"
	"sync"

	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Engine manages shared resources and execution lifecycle of each module. It
// maintains a shared event bus.
type Engine struct {
	// A list of modules that will be run in this Engine. Module's lifetime is
	// bound to Engine's lifetime. Each Module will be ran in a separate routine.
	Modules []Module

	// Root context of the engine, cancelled on Shutdown.
	ctx context.Context

	cancel context.CancelFunc

	// The EventBus shared by all modules. A golang channel is enough while all
	// modules live in the same process.
	EventBus *gochannel.GoChannel
}

func NewEngine(ms []Module, ctx context.Context, e *gochannel.GoChannel) *Engine {
	ctx, cancel := context.WithCancel(ctx)
	return &Engine{
		Modules:  ms,
		ctx:      ctx,
		cancel:   cancel,
		EventBus: e,
	}
}

// Run executes all modules and blocks until every module returned.
func (e *Engine) Run() {
	var wg sync.WaitGroup

	for idx := range e.Modules {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			Logger.Log.Infof("start engine module %s", e.Modules[index].Name())
			RunModuleWithGracefulRestart(e.ctx, e.Modules[index])
			Logger.Log.Infof("module %s finished execution", e.Modules[index].Name())
		}(idx)
	}

	wg.Wait()
}

// Shutdown cancels every module. Run returns once they all stopped.
func (e *Engine) Shutdown() {
	Logger.Log.Infoln("starting graceful shutdown process")
	e.cancel()
	if err := e.EventBus.Close(); err != nil {
		Logger.Log.Errorf("cannot close event bus: %v", err)
	}
}
