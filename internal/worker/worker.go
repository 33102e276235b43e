// Package worker runs the single dispatch goroutine that drains the intake
// queue. All chat updates flow through one worker, so session operations
// execute strictly in arrival order and never interleave.
package worker

import (
	"context"
	"encoding/json"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/santabot/santa-server-go/internal/audit"
	"github.com/santabot/santa-server-go/internal/queue"
)

// UpdateHandler consumes one decoded chat update. Errors are logged by the
// dispatcher and never stop the loop.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update) error
}

// Dispatcher moves payloads from the intake queue to the update handler,
// one at a time.
type Dispatcher struct {
	queue        *queue.Queue
	handler      UpdateHandler
	pollInterval time.Duration
	stop         chan struct{}
	done         chan struct{}
}

func NewDispatcher(q *queue.Queue, handler UpdateHandler, pollInterval time.Duration) *Dispatcher {
	return &Dispatcher{
		queue:        q,
		handler:      handler,
		pollInterval: pollInterval,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the dispatch goroutine.
func (d *Dispatcher) Start() {
	log.Info().Dur("poll_interval", d.pollInterval).Msg("Dispatch worker started")
	go d.run()
}

// Stop signals the goroutine and waits for it to drain the current payload.
func (d *Dispatcher) Stop() {
	close(d.stop)
	d.queue.Close()
	<-d.done
	log.Info().Msg("Dispatch worker stopped")
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for {
		select {
		case <-d.stop:
			return
		default:
		}

		payload, ok := d.queue.Dequeue(d.pollInterval)
		if !ok {
			continue
		}
		d.process(payload)
	}
}

func (d *Dispatcher) process(payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Update handler panicked")
		}
	}()

	var update tgbotapi.Update
	if err := json.Unmarshal(payload, &update); err != nil {
		log.Warn().Err(err).Int("payload_bytes", len(payload)).Msg("Dropping undecodable update")
		audit.Log(context.Background(), audit.Event{
			Type:    audit.EventUpdateDropped,
			Details: map[string]any{"reason": "undecodable payload"},
		})
		return
	}

	if err := d.handler.HandleUpdate(context.Background(), &update); err != nil {
		log.Error().Err(err).Int("update_id", update.UpdateID).Msg("Update handling failed")
	}
}
