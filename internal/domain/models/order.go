package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы заказа. Порядок прохождения зависит от типа получения:
// самовывоз идёт через "Ready for Pickup", доставка — через "Out for Delivery".
const (
	StatusPending        = "Pending"
	StatusPreparing      = "Preparing"
	StatusReadyForPickup = "Ready for Pickup"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
)

// Типы получения заказа
const (
	DeliveryTypePickup   = "pickup"
	DeliveryTypeDelivery = "delivery"
)

// Статусы оплаты. Платёжный шлюз не подключён: карта помечается оплаченной
// сразу, наличные — ожидают получения.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Order представляет заказ клиента со снапшотом позиций и контактов на момент оформления
type Order struct {
	ID             uuid.UUID   `json:"id"`
	OrderNumber    string      `json:"orderNumber"` // короткий номер для клиента, производный от ID
	UserID         *int64      `json:"userId,omitempty"`
	CustomerName   string      `json:"customerName"`
	CustomerEmail  string      `json:"customerEmail"`
	Items          []OrderItem `json:"items"`
	DeliveryType   string      `json:"deliveryType"`
	Address        string      `json:"address,omitempty"`
	Distance       float64     `json:"distance"`       // км, 0 для самовывоза
	DeliveryCharge float64     `json:"deliveryCharge"` // 0 для самовывоза
	TotalAmount    float64     `json:"totalAmount"`    // сумма позиций + доставка, фиксируется при создании
	OrderStatus    string      `json:"orderStatus"`
	PaymentStatus  string      `json:"paymentStatus"`
	PaymentMethod  string      `json:"paymentMethod"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// OrderItem — позиция заказа; имя и цена копируются из каталога при оформлении
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal возвращает сумму позиций без доставки
func (o *Order) Subtotal() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// ValidStatus проверяет, что строка — один из пяти распознаваемых статусов
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusPreparing, StatusReadyForPickup, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

// CanTransition проверяет допустимость перехода. Машина состояний намеренно
// разрешает пропуск и откат шагов (ручное управление администратором),
// запрещён только выход из терминального статуса Delivered.
func CanTransition(from, to string) bool {
	if !ValidStatus(to) {
		return false
	}
	return from != StatusDelivered
}

// StatusSteps возвращает упорядоченный список шагов для типа получения:
// по нему клиент вычисляет индекс прогресса на странице отслеживания
func StatusSteps(deliveryType string) []string {
	if deliveryType == DeliveryTypePickup {
		return []string{StatusPending, StatusPreparing, StatusReadyForPickup, StatusDelivered}
	}
	return []string{StatusPending, StatusPreparing, StatusOutForDelivery, StatusDelivered}
}

// ShortNumber формирует короткий номер заказа из его идентификатора
func ShortNumber(id uuid.UUID) string {
	s := id.String()
	return s[len(s)-8:]
}
