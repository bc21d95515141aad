package telegram

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"moexbot/internal/dialog"
	"moexbot/internal/logger"
)

const (
	chatQueueDepth = 32
	handleTimeout  = 30 * time.Second
)

// Dispatcher fans inbound events out to per-chat workers. Events of one
// chat are handled strictly in arrival order; distinct chats proceed in
// parallel. Both the poller and the webhook feed it.
type Dispatcher struct {
	engine *dialog.Engine
	client *Client
	log    *zap.SugaredLogger

	mu     sync.Mutex
	queues map[int64]chan dialog.Event
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher delivering replies through client.
func NewDispatcher(engine *dialog.Engine, client *Client) *Dispatcher {
	return &Dispatcher{
		engine: engine,
		client: client,
		log:    logger.Named("dispatcher"),
		queues: make(map[int64]chan dialog.Event),
	}
}

// Enqueue hands one event to the chat's worker, creating the worker on
// first contact. Blocks when the chat's queue is full.
func (d *Dispatcher) Enqueue(ev dialog.Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	queue, found := d.queues[ev.ChatID]
	if !found {
		queue = make(chan dialog.Event, chatQueueDepth)
		d.queues[ev.ChatID] = queue
		d.wg.Add(1)
		go d.work(queue)
	}
	d.mu.Unlock()

	queue <- ev
}

// Close stops accepting events and waits for all workers to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, queue := range d.queues {
		close(queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) work(queue <-chan dialog.Event) {
	defer d.wg.Done()
	for ev := range queue {
		d.deliver(ev)
	}
}

// deliver runs one event through the engine and sends its replies.
func (d *Dispatcher) deliver(ev dialog.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	res := d.engine.Handle(ctx, ev)
	if res.Err != nil {
		d.log.Errorw("event handling failed",
			"chat_id", ev.ChatID,
			"outcome", res.Outcome,
			"error", res.Err,
		)
	}
	for _, reply := range res.Replies {
		if err := d.client.SendMessage(ctx, ev.ChatID, reply.Text, markupFor(reply)); err != nil {
			d.log.Errorw("reply delivery failed", "chat_id", ev.ChatID, "error", err)
		}
	}
}
