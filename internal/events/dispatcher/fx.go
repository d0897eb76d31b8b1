package dispatcher

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("events.dispatcher",
	fx.Provide(DefaultConfig),
	fx.Provide(fx.Annotate(NewLogSink, fx.As(new(Sink)))),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, worker *Worker) {
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go worker.RunForever(runCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}
