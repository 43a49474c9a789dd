package model

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// UserID - идентификатор пользователя. В JSON допускается как строка, так и число:
// {"user_id": "999"} и {"user_id": 999} дают одно и то же значение.
type UserID string

func (id UserID) String() string {
	return string(id)
}

func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding user id: %w", err)
		}
		*id = UserID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or a number: %w", err)
	}
	*id = UserID(n.String())
	return nil
}
