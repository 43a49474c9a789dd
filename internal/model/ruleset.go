package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// RuleSet описывает параметры схемы подписи запросов ("dynamic rules").
// Значение считается неизменяемым на время одной операции подписи.
type RuleSet struct {
	StaticParam      string `json:"static_param"`
	ChecksumIndexes  []int  `json:"checksum_indexes"`
	ChecksumConstant int64  `json:"checksum_constant"`
	Start            string `json:"start"`
	End              string `json:"end"`
	AppToken         string `json:"app_token,omitempty"`
	Revision         string `json:"revision,omitempty"`
}

var ErrMissingRuleField = errors.New("rule set is missing required field")

var requiredRuleKeys = []string{
	"static_param",
	"checksum_indexes",
	"checksum_constant",
	"start",
	"end",
}

// UnmarshalJSON отклоняет payload без любого из обязательных ключей,
// чтобы нулевой checksum_constant отличался от отсутствующего.
func (r *RuleSet) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("decoding rule set: %w", err)
	}

	var missing []string
	for _, key := range requiredRuleKeys {
		raw, ok := keys[key]
		if !ok || string(raw) == "null" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRuleField, strings.Join(missing, ", "))
	}

	type plain RuleSet
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("decoding rule set: %w", err)
	}

	*r = RuleSet(decoded)
	return nil
}

// Validate проверяет, что заполнены start и end. Пустые static_param
// и checksum_indexes допустимы: без индексов контрольная сумма равна константе.
func (r *RuleSet) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: rule set is nil", ErrMissingRuleField)
	}

	var missing []string
	if r.Start == "" {
		missing = append(missing, "start")
	}
	if r.End == "" {
		missing = append(missing, "end")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRuleField, strings.Join(missing, ", "))
	}
	return nil
}

// RulesEnvelope - обертка, в которой правила отдает провайдер и в которой они хранятся.
type RulesEnvelope struct {
	Rules     RuleSet   `json:"rules"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RulesStatus - метаданные текущих правил без секретных полей.
type RulesStatus struct {
	Present   bool      `json:"present"`
	Revision  string    `json:"revision,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// DecodeRulesEnvelope разбирает ответ провайдера правил.
// Принимает как {"rules": {...}}, так и голый объект правил.
func DecodeRulesEnvelope(data []byte) (*RulesEnvelope, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decoding rules payload: %w", err)
	}

	if _, wrapped := probe["rules"]; wrapped {
		var env RulesEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return &env, nil
	}

	var rules RuleSet
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return &RulesEnvelope{Rules: rules}, nil
}
