package realtime

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// Имена событий, уходящих клиентам
const (
	// EventOrderStatusUpdate несёт полный снапшот заказа после смены статуса
	EventOrderStatusUpdate = "orderStatusUpdate"
	// EventPickupReady — отдельное уведомление клиенту о готовности самовывоза
	EventPickupReady = "pickupReady"
	// EventNewOrder уходит в административную комнату при оформлении заказа
	EventNewOrder = "newOrder"
)

// AdminRoom — комната панели администратора
const AdminRoom = "admin:orders"

// OrderRoom возвращает ключ комнаты отслеживания заказа
func OrderRoom(orderID uuid.UUID) string {
	return "order:" + orderID.String()
}

// UserRoom возвращает ключ персональной комнаты пользователя
func UserRoom(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

// Event — одно событие, адресованное комнате. Полезная нагрузка хранится
// сериализованной, чтобы одинаково проходить через локальный хаб,
// общую шину и SSE-поток.
type Event struct {
	Room    string          `json:"room"`
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Broadcaster — рассылка событий живым подписчикам комнат. Доставка
// best-effort: без очереди, без повтора, без подтверждений; отключённый
// клиент сверяет состояние обычным запросом снапшота.
type Broadcaster interface {
	BroadcastToOrder(orderID uuid.UUID, event string, payload any)
	BroadcastToUser(userID int64, event string, payload any)
	BroadcastToAdmins(event string, payload any)
}
