package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lostfound/internal/api/middleware"
	"lostfound/internal/core/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserService is a mock implementation of users.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) SyncUser(ctx context.Context) (*users.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserService) GetUserByClerkID(ctx context.Context, clerkID string) (*users.User, error) {
	args := m.Called(ctx, clerkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func sampleUser() *users.User {
	name := "Asha Verma"
	return &users.User{
		ID:        uuid.New(),
		ClerkID:   "user_2abc",
		Name:      &name,
		CreatedAt: time.Now(),
	}
}

func TestSync(t *testing.T) {
	tests := []struct {
		name     string
		user     *users.User
		err      error
		wantCode int
	}{
		{"created or existing", sampleUser(), nil, http.StatusOK},
		{"anonymous", nil, nil, http.StatusUnauthorized},
		{"identity without id", nil, users.ErrInvalidIdentity, http.StatusUnauthorized},
		{"store down", nil, errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockUserService)
			service.On("SyncUser", mock.Anything).Return(tt.user, tt.err)

			w := httptest.NewRecorder()
			NewSyncHandler(service).HandleSync(w, httptest.NewRequest(http.MethodPost, "/api/users/sync", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				var got users.User
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, tt.user.ID, got.ID)
				assert.Equal(t, "user_2abc", got.ClerkID)
			}
		})
	}
}

func TestMe(t *testing.T) {
	service := new(MockUserService)
	user := sampleUser()
	service.On("GetUserByClerkID", mock.Anything, "user_2abc").Return(user, nil)
	service.On("GetUserByClerkID", mock.Anything, "user_new").Return(nil, users.ErrUserNotFound)
	handler := NewMeHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	handler.HandleMe(w, req.WithContext(middleware.SetTestUserID(req.Context(), "user_2abc")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.HandleMe(w, req.WithContext(middleware.SetTestUserID(req.Context(), "user_new")))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.HandleMe(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
