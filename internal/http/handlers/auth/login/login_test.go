package login_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/martynshik/event-manager/internal/http/handlers/auth/login"
	"github.com/martynshik/event-manager/internal/http/response"
	"github.com/martynshik/event-manager/internal/models"
	services "github.com/martynshik/event-manager/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler(t *testing.T) {
	user := &models.User{
		UID:   "uid-1",
		Email: "user@example.com",
		Role:  "user",
	}

	tests := []struct {
		name           string
		body           string
		mockUser       *models.User
		mockToken      string
		mockErr        error
		callMock       bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "success",
			body:           `{"email":"user@example.com","password":"secret123"}`,
			mockUser:       user,
			mockToken:      "token-abc",
			callMock:       true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "wrong password",
			body:           `{"email":"user@example.com","password":"secret123"}`,
			mockErr:        services.ErrInvalidCredentials,
			callMock:       true,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
		},
		{
			name:           "invalid json",
			body:           `{`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "not an email",
			body:           `{"email":"not-an-email","password":"secret123"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "missing password",
			body:           `{"email":"user@example.com"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.callMock {
				serviceMock.On("Login", mock.Anything, "user@example.com", "secret123").
					Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}

			handler := login.New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp.Error)
			}
			if tt.wantStatusCode == http.StatusOK {
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "token-abc", data["token"])
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
