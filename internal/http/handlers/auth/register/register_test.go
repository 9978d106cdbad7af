package register_test

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

	"github.com/martynshik/event-manager/internal/http/handlers/auth/register"
	"github.com/martynshik/event-manager/internal/http/response"
	"github.com/martynshik/event-manager/internal/models"
	"github.com/martynshik/event-manager/internal/storage"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	args := m.Called(ctx, name, email, password, role)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler(t *testing.T) {
	registered := &models.User{
		UID:   "uid-1",
		Name:  "Test User",
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
		wantRespStatus string
	}{
		{
			name:           "success",
			body:           `{"name":"Test User","email":"user@example.com","password":"secret123","role":"user"}`,
			mockUser:       registered,
			mockToken:      "token-abc",
			callMock:       true,
			wantStatusCode: http.StatusOK,
			wantRespStatus: response.StatusOK,
		},
		{
			name:           "invalid json",
			body:           `{"name":`,
			wantStatusCode: http.StatusBadRequest,
			wantRespStatus: response.StatusError,
		},
		{
			name:           "missing email",
			body:           `{"name":"Test User","password":"secret123","role":"user"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantRespStatus: response.StatusError,
		},
		{
			name:           "short password",
			body:           `{"name":"Test User","email":"user@example.com","password":"abc","role":"user"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantRespStatus: response.StatusError,
		},
		{
			name:           "unknown role",
			body:           `{"name":"Test User","email":"user@example.com","password":"secret123","role":"root"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantRespStatus: response.StatusError,
		},
		{
			name:           "duplicate email",
			body:           `{"name":"Test User","email":"user@example.com","password":"secret123","role":"user"}`,
			mockErr:        storage.ErrEmailTaken,
			callMock:       true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantRespStatus: response.StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.callMock {
				serviceMock.On("Register", mock.Anything, "Test User", "user@example.com", "secret123", "user").
					Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}

			handler := register.New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantRespStatus, resp.Status)

			if tt.wantStatusCode == http.StatusOK {
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "token-abc", data["token"])
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
