// Package worker fans broker deliveries from the per-type queues into a
// pool of handler goroutines.
package worker

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/zlog"
)

type deliveryHandler interface {
	HandleDelivery(ctx context.Context, d amqp.Delivery)
}

type consumer interface {
	Consume(ctx context.Context) (<-chan amqp.Delivery, error)
}

// Pool consumes from all registered queues concurrently. The broker hands
// any given message to exactly one worker; no further locking is needed.
type Pool struct {
	consumers []consumer
	handler   deliveryHandler
}

// NewPool creates a worker pool over the given consumers.
func NewPool(handler deliveryHandler, consumers ...consumer) *Pool {
	return &Pool{
		consumers: consumers,
		handler:   handler,
	}
}

// Run starts workerCount handler goroutines and blocks until ctx is
// cancelled and all in-flight messages have been handed off.
func (p *Pool) Run(ctx context.Context, workerCount int) {
	var wg sync.WaitGroup

	msgChan := make(chan amqp.Delivery, workerCount*10)

	var forwarders sync.WaitGroup

	for _, c := range p.consumers {
		deliveries, err := c.Consume(ctx)
		if err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			continue
		}

		forwarders.Add(1)
		go func(in <-chan amqp.Delivery) {
			defer forwarders.Done()

			for d := range in {
				msgChan <- d
			}
		}(deliveries)
	}

	go func() {
		forwarders.Wait()
		close(msgChan)
	}()

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Printf("worker-%d started", id)

			for d := range msgChan {
				p.handler.HandleDelivery(ctx, d)
			}

			zlog.Logger.Printf("worker-%d shutting down", id)
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Print("worker pool stopped")
}
