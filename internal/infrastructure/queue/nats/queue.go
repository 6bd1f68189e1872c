// Package nats carries document.ingested events from the API to the NIGO
// workers over a NATS queue group.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/heritagehub/heritage-hub/internal/infrastructure/resilience"
)

// DefaultSubject carries document.ingested events.
const DefaultSubject = "documents.ingest"

const (
	workerGroup      = "nigo-workers"
	publishOperation = "nats.publish"
	drainTimeout     = 5 * time.Second
)

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
	// OnLag receives the publish-to-delivery delay of every event.
	OnLag func(time.Duration)
}

func (o Options) natsOptions() []nats.Option {
	retry := true
	if o.RetryOnFailedConnect != nil {
		retry = *o.RetryOnFailedConnect
	}
	return []nats.Option{
		nats.Name("heritage-hub"),
		nats.Timeout(positiveOr(o.ConnectTimeout, 2*time.Second)),
		nats.ReconnectWait(positiveOr(o.ReconnectWait, 2*time.Second)),
		nats.MaxReconnects(positiveOr(o.MaxReconnects, 60)),
		nats.RetryOnFailedConnect(retry),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	}
}

func positiveOr[T int | time.Duration](v, fallback T) T {
	if v > 0 {
		return v
	}
	return fallback
}

// Queue publishes and consumes document.ingested events.
type Queue struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
	onLag    func(time.Duration)
	now      func() time.Time
}

func New(url, subject string) (*Queue, error) {
	return NewWithOptions(url, subject, Options{})
}

func NewWithOptions(url, subject string, options Options) (*Queue, error) {
	conn, err := nats.Connect(url, options.natsOptions()...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	q := newQueue(subject, options)
	q.conn = conn
	return q, nil
}

func newQueue(subject string, options Options) *Queue {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Queue{
		subject:  subject,
		executor: options.ResilienceExecutor,
		onLag:    options.OnLag,
		now:      time.Now,
	}
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

// Healthy reports whether the connection is currently established.
func (q *Queue) Healthy() bool {
	return q.conn != nil && q.conn.IsConnected()
}

// PublishDocumentIngested announces a stored document. The message id header
// is the document id so a deduplicating stream drops repeated publishes.
func (q *Queue) PublishDocumentIngested(ctx context.Context, documentID string) error {
	payload, err := encodeEvent(documentID, q.now())
	if err != nil {
		return fmt.Errorf("encode ingested event: %w", err)
	}
	msg := &nats.Msg{Subject: q.subject, Data: payload, Header: nats.Header{}}
	msg.Header.Set(nats.MsgIdHdr, documentID)
	msg.Header.Set("Content-Type", "application/json")

	publish := func(context.Context) error {
		if err := q.conn.PublishMsg(msg); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}
	if q.executor != nil {
		err = q.executor.Execute(ctx, publishOperation, publish, classifyNATSError)
	} else {
		err = publish(ctx)
	}
	return resilience.WrapTemporary("nats publish", err, classifyNATSError)
}

// SubscribeDocumentIngested joins the worker queue group and blocks until ctx
// ends, then drains in-flight messages.
func (q *Queue) SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, workerGroup, func(msg *nats.Msg) {
		q.deliver(ctx, msg.Data, handler)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(drainTimeout); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// deliver decodes one event and hands its document id to handler. Malformed
// events are dropped; handler failures are logged because processing records
// its own failed status.
func (q *Queue) deliver(ctx context.Context, data []byte, handler func(context.Context, string) error) {
	if ctx.Err() != nil {
		return
	}
	ev, err := decodeEvent(data)
	if err != nil {
		slog.Warn("ingest_event_invalid", "subject", q.subject, "error", err)
		return
	}
	if q.onLag != nil && !ev.PublishedAt.IsZero() {
		q.onLag(max(q.now().Sub(ev.PublishedAt), 0))
	}

	if err := handler(ctx, ev.DocumentID); err != nil {
		slog.Error("worker_handler_failed", "document_id", ev.DocumentID, "error", err)
	}
}
