// workers/elimination_publisher.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"trivia-survival/models"
)

const publishTimeout = 5 * time.Second

// EliminationPublisher sends committed eliminations to the notification queue.
type EliminationPublisher struct {
	conn  *amqp.Connection
	mu    sync.Mutex // amqp channels are not safe for concurrent publishing
	ch    *amqp.Channel
	queue string
}

func NewEliminationPublisher(url, queue string) (*EliminationPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	slog.Info("[Publisher] elimination queue ready", "queue", q.Name)
	return &EliminationPublisher{conn: conn, ch: ch, queue: q.Name}, nil
}

func (p *EliminationPublisher) PublishEliminations(ctx context.Context, event models.EliminationEvent) error {
	msg, err := eliminationMessage(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish elimination event: %w", err)
	}
	return nil
}

func (p *EliminationPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func eliminationMessage(event models.EliminationEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode elimination event: %w", err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         "survival.eliminated",
		MessageId:    fmt.Sprintf("%s:%d", event.TournamentID, event.DayNumber),
		Timestamp:    event.EliminatedAt,
		Body:         body,
	}, nil
}
