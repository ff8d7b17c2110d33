package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisBridge — рассылка через общий pub/sub канал Redis. Каждый инстанс
// публикует события в канал и доставляет полученные из канала в свой
// локальный хаб, поэтому охват рассылки не ограничен одним процессом.
// Контракт тот же best-effort Broadcaster, что и у хаба.
type RedisBridge struct {
	log     *slog.Logger
	client  *redis.Client
	channel string
	hub     *Hub
}

func NewRedisBridge(log *slog.Logger, addr, channel string, hub *Hub) *RedisBridge {
	return &RedisBridge{
		log:     log,
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
		hub:     hub,
	}
}

// Run подписывается на канал и перекладывает события в локальный хаб.
// Блокируется до отмены контекста.
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				b.log.Error("failed to decode bus event", slog.Any("error", err))
				continue
			}
			b.hub.Deliver(e)
		}
	}
}

// Close завершает соединение с Redis
func (b *RedisBridge) Close() error {
	return b.client.Close()
}

// publish сериализует событие и отправляет его в общий канал;
// ошибка публикации только логируется — доставка best-effort
func (b *RedisBridge) publish(room, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		b.log.Error("failed to marshal event payload",
			slog.String("event", event), slog.Any("error", err))
		return
	}
	data, err := json.Marshal(Event{Room: room, Name: event, Payload: raw})
	if err != nil {
		b.log.Error("failed to marshal bus event", slog.Any("error", err))
		return
	}
	if err := b.client.Publish(context.Background(), b.channel, data).Err(); err != nil {
		b.log.Error("failed to publish bus event",
			slog.String("room", room), slog.String("event", event), slog.Any("error", err))
	}
}

func (b *RedisBridge) BroadcastToOrder(orderID uuid.UUID, event string, payload any) {
	b.publish(OrderRoom(orderID), event, payload)
}

func (b *RedisBridge) BroadcastToUser(userID int64, event string, payload any) {
	b.publish(UserRoom(userID), event, payload)
}

func (b *RedisBridge) BroadcastToAdmins(event string, payload any) {
	b.publish(AdminRoom, event, payload)
}
