package rules

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/apiclient"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

const wrappedRules = `{"rules":{"static_param":"ABC","checksum_indexes":[0,1],"checksum_constant":5,"start":"S","end":"E","revision":"42"}}`

func TestRemoteSource_Fetch(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		body    string
		gzipped bool
	}{
		{name: "wrapped", body: wrappedRules},
		{name: "bare object", body: `{"static_param":"ABC","checksum_indexes":[0,1],"checksum_constant":5,"start":"S","end":"E","revision":"42"}`},
		{name: "gzip", body: wrappedRules, gzipped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "secret", r.Header.Get("apiKey"))
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

				w.Header().Set("Content-Type", "application/json")
				if tt.gzipped {
					var buf bytes.Buffer
					zw := gzip.NewWriter(&buf)
					_, _ = zw.Write([]byte(tt.body))
					_ = zw.Close()
					w.Header().Set("Content-Encoding", "gzip")
					_, _ = w.Write(buf.Bytes())
					return
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			src := NewRemoteSource(srv.URL, "secret", 0, nil, zaptest.NewLogger(t))
			src.now = func() time.Time { return fixed }

			env, err := src.Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "ABC", env.Rules.StaticParam)
			assert.Equal(t, []int{0, 1}, env.Rules.ChecksumIndexes)
			assert.Equal(t, int64(5), env.Rules.ChecksumConstant)
			assert.Equal(t, "42", env.Rules.Revision)
			assert.Equal(t, fixed, env.UpdatedAt)
		})
	}
}

func TestRemoteSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(wrappedRules))
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.URL, "", 3, []time.Duration{time.Millisecond}, zaptest.NewLogger(t))

	env, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", env.Rules.Revision)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRemoteSource_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.URL, "wrong", 3, []time.Duration{time.Millisecond}, zaptest.NewLogger(t))

	_, err := src.Fetch(context.Background())
	require.Error(t, err)

	var statusErr *apiclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemoteSource_InvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rules":{"static_param":"ABC","start":"S","end":"E"}}`))
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.URL, "", 0, nil, zaptest.NewLogger(t))

	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.ErrMissingRuleField.Error())
}
