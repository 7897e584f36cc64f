package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"cfb-poll/internal/platform/mail"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingPublisher struct {
	mu       sync.Mutex
	keys     []string
	payloads [][]byte
	done     chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	p.mu.Lock()
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, payload)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestBallotWorkerPublishesJSON(t *testing.T) {
	ch := make(chan BallotEvent, 1)
	pub := &recordingPublisher{done: make(chan struct{}, 1)}
	w := NewBallotWorker(ch, pub, discard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	ch <- BallotEvent{BallotID: 9, UserID: 3, PeriodID: 14, Season: "2026", Period: 6, Entries: 25}

	select {
	case <-pub.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("event was not published")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if pub.keys[0] != "14" {
		t.Fatalf("expected period key, got %q", pub.keys[0])
	}
	var got BallotEvent
	if err := json.Unmarshal(pub.payloads[0], &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.BallotID != 9 || got.Entries != 25 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestBallotWorkerStopsOnClosedChannel(t *testing.T) {
	ch := make(chan BallotEvent)
	w := NewBallotWorker(ch, &recordingPublisher{done: make(chan struct{}, 1)}, discard)
	close(ch)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop")
	}
}

type flakyMailer struct {
	mu       sync.Mutex
	failures int
	sent     []mail.Message
	done     chan struct{}
}

func (m *flakyMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp: temporary failure")
	}
	m.sent = append(m.sent, msg)
	m.done <- struct{}{}
	return nil
}

func TestMailWorkerRetriesDelivery(t *testing.T) {
	q := NewMailQueue(1)
	mailer := &flakyMailer{failures: 2, done: make(chan struct{}, 1)}
	w := NewMailWorker(q.C(), mailer, discard)
	w.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := q.Notify(ctx, mail.Message{To: "a@example.com", Subject: "hi"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("mail was not delivered")
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 1 || mailer.sent[0].To != "a@example.com" {
		t.Fatalf("unexpected deliveries %+v", mailer.sent)
	}
}

// stallingMailer hangs on the first message until its context ends.
type stallingMailer struct {
	mu      sync.Mutex
	stalled bool
	sent    []string
	done    chan struct{}
}

func (m *stallingMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	first := !m.stalled
	m.stalled = true
	m.mu.Unlock()
	if first {
		<-ctx.Done()
		return ctx.Err()
	}
	m.mu.Lock()
	m.sent = append(m.sent, msg.To)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func TestMailWorkerBoundsEachAttempt(t *testing.T) {
	q := NewMailQueue(2)
	mailer := &stallingMailer{done: make(chan struct{}, 1)}
	w := NewMailWorker(q.C(), mailer, discard)
	w.attempts = 1
	w.timeout = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for _, to := range []string{"stuck@example.com", "next@example.com"} {
		if err := q.Notify(ctx, mail.Message{To: to, Subject: "hi"}); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("a hung delivery blocked the queue")
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 1 || mailer.sent[0] != "next@example.com" {
		t.Fatalf("unexpected deliveries %v", mailer.sent)
	}
}

func TestMailQueueNeverBlocks(t *testing.T) {
	q := NewMailQueue(1)
	ctx := context.Background()

	if err := q.Notify(ctx, mail.Message{To: "a@example.com"}); err != nil {
		t.Fatalf("first notify: %v", err)
	}
	if err := q.Notify(ctx, mail.Message{To: "b@example.com"}); !errors.Is(err, ErrMailQueueFull) {
		t.Fatalf("expected ErrMailQueueFull, got %v", err)
	}
}
