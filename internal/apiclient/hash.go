package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const XHashHeader = "X-Hash"

var ErrEmptyHash = errors.New("x-hash service returned empty value")

// HashProvider отдает значение заголовка X-Hash для пользователя.
type HashProvider interface {
	XHash(ctx context.Context, userID string) (string, error)
}

// RemoteHash получает X-Hash запросом GET <baseURL>?u=<userID>.
type RemoteHash struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
}

func NewRemoteHash(baseURL string, headers map[string]string, timeout time.Duration) *RemoteHash {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteHash{
		baseURL:    baseURL,
		headers:    headers,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (h *RemoteHash) XHash(ctx context.Context, userID string) (string, error) {
	u, err := url.Parse(h.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing x-hash url: %w", err)
	}
	q := u.Query()
	q.Set("u", userID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("creating x-hash request: %w", err)
	}
	for key, value := range h.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting x-hash: %w", err)
	}

	body, err := ReadResponse(resp)
	if err != nil {
		return "", err
	}

	value := strings.TrimSpace(string(body))
	if value == "" {
		return "", ErrEmptyHash
	}
	return value, nil
}
