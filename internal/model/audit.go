package model

import "time"

// SignatureIssuedEvent - событие выдачи подписи
type SignatureIssuedEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"-"`  // Внутреннее представление времени
	Ts        int64     `json:"ts"` // Unix timestamp в миллисекундах
	Path      string    `json:"path"`
	UserID    string    `json:"user_id"`
	SignTime  int64     `json:"sign_time"`
	Revision  string    `json:"revision,omitempty"`
	IPAddr    string    `json:"ip_address,omitempty"`
}
