// Package worker drains the fallback queue with a small pool of
// goroutines, one shared consumer feeding them.
package worker

import (
	"context"
	"sync"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/rabbitmq/queue"
)

//go:generate mockgen -source=fallback.go -destination=../mocks/worker/mock.go -package=mocks
type fallbackConsumer interface {
	Consume(ctx context.Context, out chan<- queue.FallbackMessage, strategy retry.Strategy) error
}

type messageHandler interface {
	HandleMessage(ctx context.Context, msg queue.FallbackMessage, strategy retry.Strategy)
}

// Fallback is the worker pool for out-of-band reminder delivery.
type Fallback struct {
	queue   fallbackConsumer
	handler messageHandler
}

// NewFallback creates the pool over the given queue and message handler.
func NewFallback(q fallbackConsumer, h messageHandler) *Fallback {
	return &Fallback{queue: q, handler: h}
}

// Run consumes fallback messages with workerCount goroutines until ctx is
// done, then waits for the in-flight ones to finish.
func (f *Fallback) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	var wg sync.WaitGroup
	msgChan := make(chan queue.FallbackMessage, workerCount*10)

	go func() {
		if err := f.queue.Consume(ctx, msgChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume fallback messages")
		}
	}()

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Info().Int("worker", id).Msg("fallback worker started")

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Info().Int("worker", id).Msg("fallback worker shutting down")
					return
				case msg, ok := <-msgChan:
					if !ok {
						zlog.Logger.Info().Int("worker", id).Msg("fallback channel closed, shutting down")
						return
					}

					f.handler.HandleMessage(ctx, msg, strategy)
				}
			}
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Info().Msg("fallback workers stopped")
}
