package models

import "time"

// User представляет учётную запись клиента или администратора
type User struct {
	ID           int64
	Name         string
	Email        string
	PassHash     []byte
	IsAdmin      bool
	ResetToken   *string    // токен восстановления пароля, nil если не запрошен
	ResetExpires *time.Time // срок действия токена
	CreatedAt    time.Time
}
