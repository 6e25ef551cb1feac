// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can decide to ignore them.
package queue_publisher

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/ecotour-booking/internal/queue"
)

// ReviewPublisher sends review.reported events to the broker at URL.  Each
// publish dials its own connection; reports are rare.
type ReviewPublisher struct {
    URL string
}

func NewReviewPublisher(url string) *ReviewPublisher { return &ReviewPublisher{URL: url} }

// PublishReviewReported publishes ev as a persistent JSON message on the
// review.reported queue.
func (p *ReviewPublisher) PublishReviewReported(ctx context.Context, ev q.ReviewReportedEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }
    return publish(ctx, p.URL, q.ReviewReportedQueue, body)
}

// maxDialTimeout bounds the TCP connect and AMQP handshake of one publish.
const maxDialTimeout = 2 * time.Second

// dialTimeout is maxDialTimeout, shortened to what is left of ctx.
func dialTimeout(ctx context.Context) time.Duration {
    d := maxDialTimeout
    if deadline, ok := ctx.Deadline(); ok {
        if left := time.Until(deadline); left < d {
            d = left
        }
    }
    return d
}

func publish(ctx context.Context, url, queue string, body []byte) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    d := dialTimeout(ctx)
    if d <= 0 {
        return context.DeadlineExceeded
    }
    conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(d)})
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // durable, not auto-deleted, not exclusive
    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare %s failed: %v", queue, err)
        return err
    }

    msg := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
        log.Printf("rabbitmq: publish to %s failed: %v", queue, err)
        return err
    }
    return nil
}
