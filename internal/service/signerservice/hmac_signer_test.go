package signerservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSigner_Sign(t *testing.T) {
	tests := []struct {
		name string
		key  string
		data []byte
		want string
	}{
		{
			name: "empty body",
			key:  "test_key",
			data: []byte(""),
			want: "d056b2b640f407a9daeba0b13c3b3966e5b69e84283ec3c7fa0cac56a02208a7",
		},
		{
			name: "text body",
			key:  "test_key",
			data: []byte("Hello, World!"),
			want: "26669291b2e800b4d28bda0a18874767043cc74ea716283d18bfa5741ba56a48",
		},
		{
			name: "json body",
			key:  "k",
			data: []byte(`{"sign":"x"}`),
			want: "89ec8cc6f21482158cd38736af998229ef6236c1a3af1c4513234d2d91aac514",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewHMACSigner(tt.key).Sign(tt.data))
		})
	}
}

func TestHMACSigner_DifferentKeys(t *testing.T) {
	data := []byte("same data")

	assert.NotEqual(t, NewHMACSigner("key1").Sign(data), NewHMACSigner("key2").Sign(data))
}

func TestHMACSigner_Verify(t *testing.T) {
	s := NewHMACSigner("test_key")
	data := []byte("Hello, World!")

	assert.True(t, s.Verify(data, s.Sign(data)))
	assert.False(t, s.Verify([]byte("Hello, World?"), s.Sign(data)))
	assert.False(t, s.Verify(data, "not-hex"))
	assert.False(t, s.Verify(data, ""))
	assert.False(t, NewHMACSigner("other").Verify(data, s.Sign(data)))
}
