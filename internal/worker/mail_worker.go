package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cfb-poll/internal/platform/mail"
	"cfb-poll/internal/retry"
)

var ErrMailQueueFull = errors.New("mail queue is full")

// MailQueue buffers outgoing account emails. Notify never blocks the request
// that produced the message.
type MailQueue struct {
	ch chan mail.Message
}

func NewMailQueue(size int) *MailQueue {
	return &MailQueue{ch: make(chan mail.Message, size)}
}

func (q *MailQueue) Notify(ctx context.Context, msg mail.Message) error {
	select {
	case q.ch <- msg:
		return nil
	default:
		return ErrMailQueueFull
	}
}

func (q *MailQueue) C() <-chan mail.Message {
	return q.ch
}

type MailWorker struct {
	ch       <-chan mail.Message
	mailer   mail.Mailer
	logger   *slog.Logger
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

func NewMailWorker(ch <-chan mail.Message, mailer mail.Mailer, logger *slog.Logger) *MailWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &MailWorker{
		ch:       ch,
		mailer:   mailer,
		logger:   logger,
		attempts: 3,
		backoff:  time.Second,
		timeout:  30 * time.Second,
	}
}

func (w *MailWorker) Run(ctx context.Context) {
	w.logger.Info("mail worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("mail worker stopped")
			return
		case msg, ok := <-w.ch:
			if !ok {
				return
			}
			err := retry.DoWithRetry(ctx, w.attempts, w.backoff, func() error {
				attemptCtx, cancel := context.WithTimeout(ctx, w.timeout)
				defer cancel()
				return w.mailer.Send(attemptCtx, msg)
			})
			if err != nil {
				w.logger.Error("send mail", "to", msg.To, "subject", msg.Subject, "error", err)
			}
		}
	}
}
