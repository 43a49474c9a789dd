package sign

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/rules"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/signer"
)

type stubService struct {
	result *model.SignatureResult
	err    error
	got    model.SignRequest
}

func (s *stubService) Sign(_ context.Context, req model.SignRequest) (*model.SignatureResult, error) {
	s.got = req
	return s.result, s.err
}

func TestSignHandler_PostSign(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     *model.SignatureResult
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			body:       `{"url":"https://example.com/a","user_id":"1","time":5}`,
			result:     &model.SignatureResult{Sign: "S:h:c:E", Time: 5},
			wantStatus: http.StatusOK,
			wantBody:   `{"sign":"S:h:c:E","time":5}`,
		},
		{
			name:       "invalid json",
			body:       `{"url":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing url",
			body:       `{"user_id":"1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid input",
			body:       `{"url":"not a url"}`,
			err:        fmt.Errorf("%w: relative url", signer.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no rules",
			body:       `{"url":"https://example.com/a"}`,
			err:        rules.ErrNoRules,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "hash failure",
			body:       `{"url":"https://example.com/a"}`,
			err:        signer.ErrHashFailure,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unexpected error",
			body:       `{"url":"https://example.com/a"}`,
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubService{result: tt.result, err: tt.err}
			handler := NewSignHandler(service, zaptest.NewLogger(t))

			req := httptest.NewRequest(http.MethodPost, "/sign", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.PostSign(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
				assert.Equal(t, tt.result.Sign, w.Header().Get(model.SignHeader))
				assert.Equal(t, "5", w.Header().Get(model.TimeHeader))
				assert.Equal(t, req.RemoteAddr, service.got.RemoteAddr)
			}
		})
	}
}

func TestSignHandler_PostSign_UserIDForms(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantUserID model.UserID
	}{
		{
			name:       "numeric user id",
			body:       `{"url":"https://example.com/a","user_id":999}`,
			wantStatus: http.StatusOK,
			wantUserID: "999",
		},
		{
			name:       "string user id",
			body:       `{"url":"https://example.com/a","user_id":"u-42"}`,
			wantStatus: http.StatusOK,
			wantUserID: "u-42",
		},
		{
			name:       "null user id",
			body:       `{"url":"https://example.com/a","user_id":null}`,
			wantStatus: http.StatusOK,
			wantUserID: "",
		},
		{
			name:       "boolean user id",
			body:       `{"url":"https://example.com/a","user_id":true}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubService{result: &model.SignatureResult{Sign: "S:h:c:E", Time: 5}}
			handler := NewSignHandler(service, zaptest.NewLogger(t))

			req := httptest.NewRequest(http.MethodPost, "/sign", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.PostSign(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUserID, service.got.UserID)
			}
		})
	}
}
