package logout_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/martynshik/event-manager/internal/http/handlers/auth/logout"
	"github.com/martynshik/event-manager/internal/http/middlewarectx"
	"github.com/martynshik/event-manager/internal/http/response"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Logout(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func authedContext(uid string) context.Context {
	ctx := context.WithValue(context.Background(), middlewarectx.User, "user@example.com")
	ctx = context.WithValue(ctx, middlewarectx.Role, "user")
	return context.WithValue(ctx, middlewarectx.UserUID, uid)
}

func TestLogoutHandler(t *testing.T) {
	tests := []struct {
		name           string
		ctx            context.Context
		mockCount      int
		mockErr        error
		callMock       bool
		wantStatusCode int
	}{
		{
			name:           "success revokes all tokens",
			ctx:            authedContext("uid-1"),
			mockCount:      3,
			callMock:       true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing actor in context",
			ctx:            context.Background(),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "service failure",
			ctx:            authedContext("uid-1"),
			mockErr:        errors.New("db down"),
			callMock:       true,
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.callMock {
				serviceMock.On("Logout", mock.Anything, "uid-1").
					Return(tt.mockCount, tt.mockErr).Once()
			}

			handler := logout.New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			if tt.wantStatusCode == http.StatusOK {
				var resp response.Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, float64(3), data["revoked_count"])
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
