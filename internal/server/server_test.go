package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/config"
)

const rulesJSON = `{"rules":{"static_param":"P","checksum_indexes":[0,1],"checksum_constant":5,"start":"S","end":"E","revision":"1"}}`

func testConfig(t *testing.T) *config.ServerFlags {
	t.Helper()
	dir := t.TempDir()

	rulesPath := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(rulesPath, []byte(rulesJSON), 0o600))

	return &config.ServerFlags{
		ServerAddr:   "127.0.0.1:0",
		LogLevel:     "debug",
		RulesFile:    rulesPath,
		RulesRefresh: time.Hour,
		MaxRetries:   1,
		RetryDelays:  []string{"10ms"},
		AuditFile:    filepath.Join(dir, "audit.log"),
	}
}

func TestServer_Setup(t *testing.T) {
	cfg := testConfig(t)

	app, err := NewApp(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	router, err := app.setup(context.Background())
	require.NoError(t, err)
	require.NotNil(t, app.refresher)

	srv := httptest.NewServer(router)

	resp, err := http.Post(srv.URL+"/sign", "application/json", bytes.NewBufferString(
		`{"url":"https://example.com/api2/v2/users/u123?x=1","user_id":"999","time":1700000000000}`,
	))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "S:cf87010bf2e893129a3c25635b80481bba54211b:ce:E")

	resp, err = http.Post(srv.URL+"/rules/refresh", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv.Close()
	app.Close()

	audit, err := os.ReadFile(cfg.AuditFile)
	require.NoError(t, err)
	assert.Contains(t, string(audit), `"user_id":"999"`)
}

func TestServer_Setup_InvalidDelays(t *testing.T) {
	cfg := testConfig(t)
	cfg.RetryDelays = []string{"soon"}

	app, err := NewApp(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = app.setup(context.Background())
	assert.Error(t, err)
}

func TestServer_Run_StopsOnContextCancel(t *testing.T) {
	cfg := testConfig(t)

	app, err := NewApp(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
