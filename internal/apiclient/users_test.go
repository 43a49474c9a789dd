package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

var lookupNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestLookup(t *testing.T, baseURL string) *UserLookup {
	t.Helper()

	client := NewClient(staticRules{rules: goldenRules()}, fixedSigner(), StaticIdentity("999"),
		Config{MaxRetries: 1}, nil, zaptest.NewLogger(t))

	lookup := NewUserLookup(client, baseURL, 0, nil, zaptest.NewLogger(t))
	lookup.now = func() time.Time { return lookupNow }
	return lookup
}

func TestUserLookup_Spend(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api2/v2/users/u42", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Sign"))
		time.Sleep(10 * time.Millisecond)
		_, _ = w.Write([]byte(`{"id":42,"subscribedOnData":{"totalSumm":"12.50"}}`))
	}))
	defer srv.Close()

	lookup := newTestLookup(t, srv.URL+"/")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spend, err := lookup.Spend(context.Background(), "42")
			assert.NoError(t, err)
			assert.Equal(t, 12.5, spend)
		}()
	}
	wg.Wait()

	spend, err := lookup.Spend(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 12.5, spend)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUserLookup_SpendMissingIsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	spend, err := newTestLookup(t, srv.URL).Spend(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, 0.0, spend)
}

func TestUserLookup_FailureIsNotCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"id":5,"totalSumm":3}`))
	}))
	defer srv.Close()

	lookup := newTestLookup(t, srv.URL)

	_, err := lookup.Spend(context.Background(), "5")
	require.Error(t, err)

	spend, err := lookup.Spend(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, 3.0, spend)
	assert.Equal(t, int32(2), calls.Load())
}

func TestUserLookup_EmptyUserID(t *testing.T) {
	lookup := NewUserLookup(nil, "https://example.com", 0, nil, zaptest.NewLogger(t))

	_, err := lookup.Spend(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestUserLookup_LastSeen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api2/v2/users/u1":
			_, _ = w.Write([]byte(`{"id":1,"lastSeen":"2024-05-01T11:59:30+00:00"}`))
		default:
			_, _ = w.Write([]byte(`{"id":2}`))
		}
	}))
	defer srv.Close()

	lookup := newTestLookup(t, srv.URL)

	seen, ok, err := lookup.LastSeen(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, seen.Equal(lookupNow.Add(-30*time.Second)))

	_, ok, err = lookup.LastSeen(context.Background(), "2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserLookup_OnlineSubscribers(t *testing.T) {
	lastSeen := map[string]string{
		"1": lookupNow.Add(-30 * time.Second).Format(time.RFC3339),
		"2": lookupNow.Add(-10 * time.Minute).Format(time.RFC3339),
		"3": lookupNow.Add(90 * time.Second).Format(time.RFC3339),
	}

	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// подпись должна сходиться с тем, что получится из итогового URL запроса
		want, err := fixedSigner().Sign(srvURL+r.URL.RequestURI(), "999", 0, goldenRules())
		if assert.NoError(t, err) {
			assert.Equal(t, want.Sign, r.Header.Get("Sign"))
		}

		if r.URL.Path == "/api2/v2/subscriptions/subscribers" {
			assert.Equal(t, "1", r.URL.Query().Get("filter[online]"))
			assert.Equal(t, "50", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"list":[{"id":1,"name":"a"},{"user_id":"2"},{"uid":3},{"name":"no id"},{"id":4}]}`))
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/api2/v2/users/u")
		if id == "4" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprintf(w, `{"id":%s,"lastSeen":%q}`, id, lastSeen[id])
	}))
	defer srv.Close()
	srvURL = srv.URL

	online, err := newTestLookup(t, srv.URL).OnlineSubscribers(context.Background(), 50)
	require.NoError(t, err)

	require.Len(t, online, 2)
	assert.Equal(t, model.UserID("1"), online[0].ID)
	assert.Equal(t, model.UserID("3"), online[1].ID)

	raw, err := json.Marshal(online[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"a"}`, string(raw))
}

func TestUserLookup_FilterRecentlySeen_BoundedConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		_, _ = fmt.Fprintf(w, `{"lastSeen":%q}`, lookupNow.Format(time.RFC3339))
	}))
	defer srv.Close()

	users := make([]model.Subscriber, 25)
	for i := range users {
		users[i] = model.Subscriber{ID: model.UserID(fmt.Sprint(i + 1))}
	}

	online, err := newTestLookup(t, srv.URL).FilterRecentlySeen(context.Background(), users, DefaultOnlineWindow)
	require.NoError(t, err)

	assert.Len(t, online, 25)
	assert.LessOrEqual(t, peak.Load(), int32(lookupConcurrency))
}

func TestUserLookup_FilterRecentlySeen_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lookup := NewUserLookup(nil, "https://example.com", 0, nil, zaptest.NewLogger(t))

	_, err := lookup.FilterRecentlySeen(ctx, nil, DefaultOnlineWindow)
	assert.ErrorIs(t, err, context.Canceled)
}
