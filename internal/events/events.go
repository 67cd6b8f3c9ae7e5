// Package events доставляет уведомления об изменениях занятий подписчикам.
// Публикация выполняется после фиксации транзакции и не влияет на её результат.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

type Type string

const (
	LessonCreated      Type = "lesson_created"
	LessonUpdated      Type = "lesson_updated"
	LessonDeleted      Type = "lesson_deleted"
	LessonsBulkDeleted Type = "lessons_bulk_deleted"
)

// LessonEvent описывает зафиксированное изменение. GroupIDs включает группы до и после изменения.
type LessonEvent struct {
	Type      Type      `json:"event_type"`
	LessonIDs []uint    `json:"lesson_ids"`
	Day       int       `json:"day,omitempty"`
	Pair      int       `json:"pair,omitempty"`
	GroupIDs  []uint    `json:"group_ids,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev LessonEvent) error
}

// Nop отбрасывает события.
type Nop struct{}

func (Nop) Publish(context.Context, LessonEvent) error { return nil }

// RedisPublisher публикует события в канал Redis pub/sub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev LessonEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Relay подписывается на канал Redis и передаёт события в sink, пока не отменён ctx.
func Relay(ctx context.Context, client *redis.Client, channel string, sink Publisher, log *slog.Logger) error {
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	log.Info("Подписка на события занятий", "channel", channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := Forward(ctx, []byte(msg.Payload), sink); err != nil {
				log.Warn("Некорректное событие в канале", "channel", channel, "error", err)
			}
		}
	}
}

// Forward разбирает сообщение канала и передаёт событие в sink.
func Forward(ctx context.Context, payload []byte, sink Publisher) error {
	var ev LessonEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	return sink.Publish(ctx, ev)
}
