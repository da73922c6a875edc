package mailer

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

const deliveryTimeout = 30 * time.Second

type message struct {
	email string
	code  string
}

// Queue is a fire-and-forget Sender. SendResetCode only buffers the
// message; Run delivers buffered messages through the wrapped Sender.
type Queue struct {
	next Sender
	jobs chan message
	log  logging.Logger
}

func NewQueue(next Sender, size int, log logging.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{next: next, jobs: make(chan message, size), log: log}
}

// SendResetCode never blocks. It returns ErrQueueFull when the buffer is
// exhausted.
func (q *Queue) SendResetCode(_ context.Context, email, code string) error {
	select {
	case q.jobs <- message{email: email, code: code}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers messages until ctx is done, then flushes what is still
// buffered and returns.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			q.drain(context.WithoutCancel(ctx))
			return
		case m := <-q.jobs:
			q.deliver(ctx, m)
		}
	}
}

func (q *Queue) drain(ctx context.Context) {
	for {
		select {
		case m := <-q.jobs:
			q.deliver(ctx, m)
		default:
			return
		}
	}
}

func (q *Queue) deliver(ctx context.Context, m message) {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if err := q.next.SendResetCode(ctx, m.email, m.code); err != nil {
		q.log.Error(ctx, "reset code delivery failed", "email", m.email, "error", err)
		return
	}
	q.log.Debug(ctx, "reset code delivered", "email", m.email)
}
