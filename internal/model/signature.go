package model

import "strconv"

const (
	SignHeader   = "Sign"
	TimeHeader   = "Time"
	UserIDHeader = "User-ID"
)

// SignatureResult - подпись и время, которое участвовало в ее вычислении.
// Time нужно отправлять как есть: получатель проверяет подпись по тому же значению.
type SignatureResult struct {
	Sign string `json:"sign"`
	Time int64  `json:"time"`
}

// Headers возвращает пару заголовков Sign/Time.
func (s SignatureResult) Headers() map[string]string {
	return map[string]string{
		SignHeader: s.Sign,
		TimeHeader: strconv.FormatInt(s.Time, 10),
	}
}

// SignRequest - входные данные для подписи через сервис.
type SignRequest struct {
	URL    string `json:"url"`
	UserID UserID `json:"user_id"`
	Time   int64  `json:"time,omitempty"`

	// RemoteAddr заполняет обработчик, в аудит попадает только адрес.
	RemoteAddr string `json:"-"`
}
