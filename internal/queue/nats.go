package queue

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSQueue publishes to a subject and consumes through a queue group so
// that several workers share the stream.
type NATSQueue struct {
	conn    *nats.Conn
	subject string
	group   string
}

// NewNATSQueue wraps an established connection.
func NewNATSQueue(conn *nats.Conn, subject, group string) *NATSQueue {
	if subject == "" {
		subject = "zymo.queue"
	}
	if group == "" {
		group = "workers"
	}
	return &NATSQueue{conn: conn, subject: subject, group: group}
}

// Publish sends a message to the subject.
func (q *NATSQueue) Publish(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := encode(msg)
	if err != nil {
		return err
	}
	return q.conn.Publish(q.subject, raw)
}

// Consume subscribes with the queue group until ctx is done.
func (q *NATSQueue) Consume(ctx context.Context) (<-chan Message, error) {
	in := make(chan *nats.Msg, 64)
	sub, err := q.conn.ChanQueueSubscribe(q.subject, q.group, in)
	if err != nil {
		return nil, fmt.Errorf("queue: subscribe %s: %w", q.subject, err)
	}
	out := make(chan Message)
	go func() {
		defer close(out)
		defer func() { _ = sub.Unsubscribe() }()
		for {
			select {
			case m := <-in:
				msg, err := decode(m.Data)
				if err != nil {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
