package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// размер буфера подписчика; при переполнении событие для этого подписчика
// отбрасывается, клиент догонит состояние при следующем запросе снапшота
const subscriberBuffer = 16

// Subscriber — одно живое подключение. Членство в комнатах не переживает
// отключения: после реконнекта клиент вступает в комнаты заново.
type Subscriber struct {
	ch chan Event
}

// Events возвращает канал событий подписчика
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Hub владеет картой членства комнат и доставляет события подписчикам.
// Внедряется в сервисы явно: никакого глобального реестра подключений.
type Hub struct {
	log *slog.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
	subs  map[*Subscriber]map[string]struct{} // обратный индекс для отписки
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:   log,
		rooms: make(map[string]map[*Subscriber]struct{}),
		subs:  make(map[*Subscriber]map[string]struct{}),
	}
}

// Subscribe регистрирует новое подключение без членства в комнатах
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	h.subs[sub] = make(map[string]struct{})
	h.mu.Unlock()
	return sub
}

// Join добавляет подписчика в комнату; комната создаётся при первом входе
func (h *Hub) Join(sub *Subscriber, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return // уже отписан
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Subscriber]struct{})
	}
	h.rooms[room][sub] = struct{}{}
	h.subs[sub][room] = struct{}{}
}

// Leave убирает подписчика из комнаты; пустая комната удаляется
func (h *Hub) Leave(sub *Subscriber, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(sub, room)
}

func (h *Hub) leaveLocked(sub *Subscriber, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, sub)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.subs[sub]; ok {
		delete(rooms, room)
	}
}

// Unsubscribe выводит подписчика из всех комнат и закрывает его канал
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rooms, ok := h.subs[sub]
	if !ok {
		return
	}
	for room := range rooms {
		h.leaveLocked(sub, room)
	}
	delete(h.subs, sub)
	close(sub.ch)
}

// Emit сериализует полезную нагрузку и доставляет событие всем текущим
// членам комнаты. Подписчик с заполненным буфером пропускает событие.
func (h *Hub) Emit(room, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal event payload",
			slog.String("event", event), slog.Any("error", err))
		return
	}
	h.Deliver(Event{Room: room, Name: event, Payload: raw})
}

// Deliver раздаёт уже сериализованное событие членам комнаты.
// Используется и хабом напрямую, и мостом общей шины.
func (h *Hub) Deliver(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[e.Room] {
		select {
		case sub.ch <- e:
		default:
			h.log.Warn("subscriber buffer full, dropping event",
				slog.String("room", e.Room), slog.String("event", e.Name))
		}
	}
}

// BroadcastToOrder доставляет событие в комнату заказа
func (h *Hub) BroadcastToOrder(orderID uuid.UUID, event string, payload any) {
	h.Emit(OrderRoom(orderID), event, payload)
}

// BroadcastToUser доставляет событие в персональную комнату пользователя
func (h *Hub) BroadcastToUser(userID int64, event string, payload any) {
	h.Emit(UserRoom(userID), event, payload)
}

// BroadcastToAdmins доставляет событие в комнату панели администратора
func (h *Hub) BroadcastToAdmins(event string, payload any) {
	h.Emit(AdminRoom, event, payload)
}
