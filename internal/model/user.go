package model

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// UserProfile - данные пользователя из подписанного API, которые нужны клиенту.
type UserProfile struct {
	ID        UserID     `json:"id"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
	TotalSumm *float64   `json:"total_summ,omitempty"`
}

// Spend возвращает сумму трат пользователя, 0 если API ее не отдал.
func (p *UserProfile) Spend() float64 {
	if p == nil || p.TotalSumm == nil {
		return 0
	}
	return *p.TotalSumm
}

// SeenWithin сообщает, был ли пользователь в сети не дальше window от now.
// Сравнение симметричное: время из будущего тоже считается близким.
func (p *UserProfile) SeenWithin(now time.Time, window time.Duration) bool {
	if p == nil || p.LastSeen == nil {
		return false
	}
	diff := now.Sub(*p.LastSeen)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

type userPayload struct {
	ID               UserID          `json:"id"`
	LastSeen         json.RawMessage `json:"lastSeen"`
	TotalSumm        json.RawMessage `json:"totalSumm"`
	SubscribedOnData *struct {
		TotalSumm json.RawMessage `json:"totalSumm"`
	} `json:"subscribedOnData"`
}

// DecodeUserProfile разбирает ответ /users/u<id>.
func DecodeUserProfile(data []byte) (*UserProfile, error) {
	var payload userPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding user profile: %w", err)
	}

	profile := &UserProfile{
		ID:       payload.ID,
		LastSeen: parseLastSeen(payload.LastSeen),
	}

	// totalSumm в корне приоритетнее, даже если там null
	raw := payload.TotalSumm
	if raw == nil && payload.SubscribedOnData != nil {
		raw = payload.SubscribedOnData.TotalSumm
	}
	profile.TotalSumm = parseAmount(raw)

	return profile, nil
}

func parseLastSeen(raw json.RawMessage) *time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// parseAmount принимает число или строку с числом. null, мусор и
// бесконечности дают nil.
func parseAmount(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
	} else {
		s = string(raw)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Subscriber - элемент списка подписчиков. Raw хранит исходный объект целиком.
type Subscriber struct {
	ID  UserID
	Raw json.RawMessage
}

// UnmarshalJSON берет идентификатор из id, user_id или uid, первый непустой.
func (s *Subscriber) UnmarshalJSON(data []byte) error {
	var ids struct {
		ID     UserID `json:"id"`
		UserID UserID `json:"user_id"`
		UID    UserID `json:"uid"`
	}
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("decoding subscriber: %w", err)
	}

	for _, id := range []UserID{ids.ID, ids.UserID, ids.UID} {
		if id != "" && id != "0" {
			s.ID = id
			break
		}
	}
	s.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (s Subscriber) MarshalJSON() ([]byte, error) {
	if len(s.Raw) == 0 {
		return []byte("null"), nil
	}
	return s.Raw, nil
}

// DecodeSubscriberList разбирает ответ {"list": [...]}.
func DecodeSubscriberList(data []byte) ([]Subscriber, error) {
	var payload struct {
		List []Subscriber `json:"list"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding subscriber list: %w", err)
	}
	return payload.List, nil
}
