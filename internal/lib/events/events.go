package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"roomscout/internal/lib/logger/sl"
)

// SearchEvent — факт выполненного поиска для аналитики.
type SearchEvent struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id,omitempty"`
	Mode      string    `json:"mode"`
	Region    string    `json:"region,omitempty"`
	Places    []string  `json:"places,omitempty"`
	RoomType  string    `json:"room_type,omitempty"`
	Total     int32     `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher — fire-and-forget публикация событий. Ошибки публикации
// логируются и не всплывают к вызывающему.
type Publisher interface {
	PublishSearch(ctx context.Context, evt SearchEvent)
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewKafka — publisher поверх одного асинхронного kafka.Writer.
func NewKafka(broker, topic string, log *slog.Logger) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
		log: log,
	}
}

func (p *kafkaPublisher) PublishSearch(ctx context.Context, evt SearchEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		p.log.Warn("failed to marshal search event", sl.Err(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.EventID),
		Value: data,
		Time:  evt.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("failed to publish search event", sl.Err(err))
	}
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noop struct{}

// NewNoop — заглушка для выключенной публикации событий.
func NewNoop() Publisher {
	return noop{}
}

func (noop) PublishSearch(ctx context.Context, evt SearchEvent) {}
func (noop) Close() error                                       { return nil }
