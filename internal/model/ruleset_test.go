package model

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSet_UnmarshalJSON(t *testing.T) {
	t.Run("all fields present", func(t *testing.T) {
		data := []byte(`{"static_param":"P","checksum_indexes":[0,1],"checksum_constant":0,"start":"S","end":"E","revision":"r1"}`)

		var rules RuleSet
		require.NoError(t, json.Unmarshal(data, &rules))

		assert.Equal(t, "P", rules.StaticParam)
		assert.Equal(t, []int{0, 1}, rules.ChecksumIndexes)
		assert.Equal(t, int64(0), rules.ChecksumConstant)
		assert.Equal(t, "S", rules.Start)
		assert.Equal(t, "E", rules.End)
		assert.Equal(t, "r1", rules.Revision)
	})

	t.Run("missing checksum constant", func(t *testing.T) {
		data := []byte(`{"static_param":"P","checksum_indexes":[0,1],"start":"S","end":"E"}`)

		var rules RuleSet
		err := json.Unmarshal(data, &rules)

		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMissingRuleField.Error())
		assert.Contains(t, err.Error(), "checksum_constant")
	})

	t.Run("empty values are accepted", func(t *testing.T) {
		data := []byte(`{"static_param":"","checksum_indexes":[],"checksum_constant":3,"start":"S","end":"E"}`)

		var rules RuleSet
		require.NoError(t, json.Unmarshal(data, &rules))
		assert.NoError(t, rules.Validate())
		assert.Empty(t, rules.ChecksumIndexes)
	})

	t.Run("null field counts as missing", func(t *testing.T) {
		data := []byte(`{"static_param":null,"checksum_indexes":[0],"checksum_constant":1,"start":"S","end":"E"}`)

		var rules RuleSet
		err := json.Unmarshal(data, &rules)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "static_param")
	})
}

func TestRuleSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rules   *RuleSet
		wantErr bool
	}{
		{
			name:    "nil",
			rules:   nil,
			wantErr: true,
		},
		{
			name:    "complete",
			rules:   &RuleSet{StaticParam: "P", ChecksumIndexes: []int{1}, Start: "S", End: "E"},
			wantErr: false,
		},
		{
			name:    "no indexes",
			rules:   &RuleSet{StaticParam: "P", Start: "S", End: "E"},
			wantErr: false,
		},
		{
			name:    "empty static param",
			rules:   &RuleSet{ChecksumIndexes: []int{1}, Start: "S", End: "E"},
			wantErr: false,
		},
		{
			name:    "no end",
			rules:   &RuleSet{StaticParam: "P", ChecksumIndexes: []int{1}, Start: "S"},
			wantErr: true,
		},
		{
			name:    "no start",
			rules:   &RuleSet{StaticParam: "P", ChecksumIndexes: []int{1}, End: "E"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rules.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingRuleField)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeRulesEnvelope(t *testing.T) {
	t.Run("wrapped", func(t *testing.T) {
		data := []byte(`{"rules":{"static_param":"P","checksum_indexes":[3],"checksum_constant":-7,"start":"S","end":"E"},"updated_at":"2024-01-02T03:04:05Z"}`)

		env, err := DecodeRulesEnvelope(data)
		require.NoError(t, err)

		assert.Equal(t, int64(-7), env.Rules.ChecksumConstant)
		assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), env.UpdatedAt.UTC())
	})

	t.Run("bare rule object", func(t *testing.T) {
		data := []byte(`{"static_param":"P","checksum_indexes":[3],"checksum_constant":7,"start":"S","end":"E"}`)

		env, err := DecodeRulesEnvelope(data)
		require.NoError(t, err)

		assert.Equal(t, "P", env.Rules.StaticParam)
		assert.True(t, env.UpdatedAt.IsZero())
	})

	t.Run("wrapped but incomplete", func(t *testing.T) {
		data := []byte(`{"rules":{"static_param":"P"}}`)

		_, err := DecodeRulesEnvelope(data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMissingRuleField.Error())
	})

	t.Run("not json", func(t *testing.T) {
		_, err := DecodeRulesEnvelope([]byte("<html>"))
		assert.Error(t, err)
	})
}

func TestSignatureResult_Headers(t *testing.T) {
	res := SignatureResult{Sign: "S:abc:1f:E", Time: 1700000000000}

	headers := res.Headers()

	assert.Equal(t, "S:abc:1f:E", headers[SignHeader])
	assert.Equal(t, "1700000000000", headers[TimeHeader])
}

func TestUserID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    UserID
		wantErr bool
	}{
		{name: "string", data: `{"user_id":"999"}`, want: "999"},
		{name: "integer", data: `{"user_id":999}`, want: "999"},
		{name: "large integer keeps digits", data: `{"user_id":12345678901234567890}`, want: "12345678901234567890"},
		{name: "null", data: `{"user_id":null}`, want: ""},
		{name: "absent", data: `{}`, want: ""},
		{name: "object", data: `{"user_id":{}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req SignRequest
			err := json.Unmarshal([]byte(tt.data), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.UserID)
		})
	}
}
