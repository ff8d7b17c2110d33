package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ampizza/pizza-shop/internal/jwt-new/jwtmiddleware"
	"github.com/ampizza/pizza-shop/internal/realtime"
)

// интервал heartbeat-комментариев, чтобы прокси не закрывали простаивающий поток
const heartbeatInterval = 25 * time.Second

// EventsHandler обрабатывает GET /api/events — SSE-поток событий комнат.
// Комнаты выбираются query-параметрами: ?order=<uuid> — отслеживание заказа,
// ?user=<id> — персональные уведомления (требует совпадения с токеном),
// ?feed=admin — лента панели администратора (только для администраторов).
func EventsHandler(log *slog.Logger, hub *realtime.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.EventsHandler"
		logger := log.With(slog.String("op", op))

		flusher, ok := w.(http.Flusher)
		if !ok {
			logger.Error("response writer does not support flushing")
			writeError(w, logger, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		rooms, err := requestedRooms(r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, err.Error())
			return
		}
		if len(rooms) == 0 {
			writeError(w, logger, http.StatusBadRequest, "no rooms requested")
			return
		}

		sub := hub.Subscribe()
		defer hub.Unsubscribe(sub)
		for _, room := range rooms {
			hub.Join(sub, room)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		// сразу подтверждаем подключение, чтобы клиент знал, что комнаты подключены
		fmt.Fprintf(w, ": connected\n\n")
		flusher.Flush()

		logger.Info("stream opened", slog.Any("rooms", rooms))

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				logger.Info("stream closed by client")
				return
			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				flusher.Flush()
			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, event.Payload)
				flusher.Flush()
			}
		}
	}
}

// requestedRooms превращает query-параметры в ключи комнат с проверкой прав
func requestedRooms(r *http.Request) ([]string, error) {
	var rooms []string
	query := r.URL.Query()

	// комната заказа открыта всем, кто знает его идентификатор
	if raw := query.Get("order"); raw != "" {
		orderID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid order id")
		}
		rooms = append(rooms, realtime.OrderRoom(orderID))
	}

	// персональная комната доступна только её владельцу
	if query.Has("user") {
		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			return nil, fmt.Errorf("authentication required")
		}
		rooms = append(rooms, realtime.UserRoom(userID))
	}

	if query.Get("feed") == "admin" {
		if !jwtmiddleware.IsAdminFromContext(r.Context()) {
			return nil, fmt.Errorf("admin access required")
		}
		rooms = append(rooms, realtime.AdminRoom)
	}

	return rooms, nil
}
