package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, *User) *User); ok {
		return fn(ctx, user), args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByClerkID(ctx context.Context, clerkID string) (*User, error) {
	args := m.Called(ctx, clerkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

// MockIdentityProvider is a mock implementation of IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) CurrentUser(ctx context.Context) (*ExternalIdentity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExternalIdentity), args.Error(1)
}

func testIdentity() *ExternalIdentity {
	return &ExternalIdentity{
		ID:             "user_2xYz",
		FirstName:      "Asha",
		LastName:       "Verma",
		EmailAddresses: []string{"asha@example.com", "asha.work@example.com"},
		PhoneNumbers:   []string{"+919800000000"},
		HasImage:       true,
		ImageURL:       "https://img.example.com/asha.png",
	}
}

// TestSyncUser_Anonymous tests that an anonymous caller yields no user and no error
func TestSyncUser_Anonymous(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockProvider := new(MockIdentityProvider)
	mockProvider.On("CurrentUser", mock.Anything).Return(nil, nil)

	service := NewUserService(mockRepo, mockProvider)
	user, err := service.SyncUser(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, user)
	mockRepo.AssertNotCalled(t, "GetByClerkID", mock.Anything, mock.Anything)
}

// TestSyncUser_CreatesOnFirstSight tests profile mapping for a new user
func TestSyncUser_CreatesOnFirstSight(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockProvider := new(MockIdentityProvider)
	mockProvider.On("CurrentUser", mock.Anything).Return(testIdentity(), nil)
	mockRepo.On("GetByClerkID", mock.Anything, "user_2xYz").Return(nil, ErrUserNotFound)

	var created *User
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*users.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*User)
			created.ID = uuid.New()
			created.CreatedAt = time.Now()
		}).
		Return(func(ctx context.Context, u *User) *User { return u }, nil)

	service := NewUserService(mockRepo, mockProvider)
	user, err := service.SyncUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "user_2xYz", user.ClerkID)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Asha Verma", *user.Name)
	require.NotNil(t, user.Email)
	assert.Equal(t, "asha@example.com", *user.Email, "first listed address is used")
	require.NotNil(t, user.PhoneNumber)
	assert.Equal(t, "+919800000000", *user.PhoneNumber)
	require.NotNil(t, user.ProfileImageURL)
	assert.Equal(t, "https://img.example.com/asha.png", *user.ProfileImageURL)

	mockRepo.AssertExpectations(t)
}

// TestSyncUser_ReturnsExistingUnchanged tests that repeat syncs do not refresh the profile
func TestSyncUser_ReturnsExistingUnchanged(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockProvider := new(MockIdentityProvider)

	identity := testIdentity()
	identity.FirstName = "Renamed"
	mockProvider.On("CurrentUser", mock.Anything).Return(identity, nil)

	oldName := "Asha Verma"
	existing := &User{ID: uuid.New(), ClerkID: "user_2xYz", Name: &oldName}
	mockRepo.On("GetByClerkID", mock.Anything, "user_2xYz").Return(existing, nil)

	service := NewUserService(mockRepo, mockProvider)
	user, err := service.SyncUser(context.Background())
	require.NoError(t, err)

	assert.Same(t, existing, user)
	assert.Equal(t, "Asha Verma", *user.Name)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestSyncUser_OptionalFieldsAbsent tests mapping when the provider has little profile data
func TestSyncUser_OptionalFieldsAbsent(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockProvider := new(MockIdentityProvider)
	mockProvider.On("CurrentUser", mock.Anything).Return(&ExternalIdentity{
		ID:        "user_min",
		FirstName: "Solo",
		ImageURL:  "https://img.example.com/default.png",
		HasImage:  false,
	}, nil)
	mockRepo.On("GetByClerkID", mock.Anything, "user_min").Return(nil, ErrUserNotFound)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Name != nil && *u.Name == "Solo" &&
			u.Email == nil && u.PhoneNumber == nil && u.ProfileImageURL == nil
	})).Return(&User{ID: uuid.New(), ClerkID: "user_min"}, nil)

	service := NewUserService(mockRepo, mockProvider)
	_, err := service.SyncUser(context.Background())
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestSyncUser_ConflictRereads tests that losing the insert race returns the winner's row
func TestSyncUser_ConflictRereads(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockProvider := new(MockIdentityProvider)
	mockProvider.On("CurrentUser", mock.Anything).Return(testIdentity(), nil)

	winner := &User{ID: uuid.New(), ClerkID: "user_2xYz"}
	mockRepo.On("GetByClerkID", mock.Anything, "user_2xYz").Return(nil, ErrUserNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil, ErrUserAlreadyExists)
	mockRepo.On("GetByClerkID", mock.Anything, "user_2xYz").Return(winner, nil).Once()

	service := NewUserService(mockRepo, mockProvider)
	user, err := service.SyncUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, winner.ID, user.ID)
	mockRepo.AssertExpectations(t)
}

// TestSyncUser_ProviderError tests that identity-provider failures surface as errors
func TestSyncUser_ProviderError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockProvider := new(MockIdentityProvider)
	mockProvider.On("CurrentUser", mock.Anything).Return(nil, errors.New("clerk unavailable"))

	service := NewUserService(mockRepo, mockProvider)
	_, err := service.SyncUser(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load current user")
}

// TestSyncUser_EmptyIdentityID tests that an identity without an ID is rejected
func TestSyncUser_EmptyIdentityID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockProvider := new(MockIdentityProvider)
	mockProvider.On("CurrentUser", mock.Anything).Return(&ExternalIdentity{ID: "  "}, nil)

	service := NewUserService(mockRepo, mockProvider)
	_, err := service.SyncUser(context.Background())
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

// TestSyncUser_RepositoryError tests that lookup failures other than not-found are returned
func TestSyncUser_RepositoryError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockProvider := new(MockIdentityProvider)
	mockProvider.On("CurrentUser", mock.Anything).Return(testIdentity(), nil)
	mockRepo.On("GetByClerkID", mock.Anything, "user_2xYz").Return(nil, errors.New("database connection error"))

	service := NewUserService(mockRepo, mockProvider)
	_, err := service.SyncUser(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to look up user")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// memoryUserRepo enforces clerk_id uniqueness the way the users table does
type memoryUserRepo struct {
	users map[string]*User
	mu    sync.Mutex
}

func (r *memoryUserRepo) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ClerkID]; exists {
		return nil, ErrUserAlreadyExists
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.users[user.ClerkID] = user
	return user, nil
}

func (r *memoryUserRepo) GetByClerkID(ctx context.Context, clerkID string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[clerkID]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

// TestSyncUser_ConcurrentFirstSync tests that parallel first syncs create exactly one user
func TestSyncUser_ConcurrentFirstSync(t *testing.T) {
	repo := &memoryUserRepo{users: make(map[string]*User)}
	mockProvider := new(MockIdentityProvider)
	mockProvider.On("CurrentUser", mock.Anything).Return(testIdentity(), nil)

	service := NewUserService(repo, mockProvider)

	const callers = 16
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := service.SyncUser(context.Background())
			errs[i] = err
			if user != nil {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Len(t, repo.users, 1)
}

// TestSyncUser_Idempotent tests that two sequential syncs return the same ID
func TestSyncUser_Idempotent(t *testing.T) {
	repo := &memoryUserRepo{users: make(map[string]*User)}
	mockProvider := new(MockIdentityProvider)
	mockProvider.On("CurrentUser", mock.Anything).Return(testIdentity(), nil)

	service := NewUserService(repo, mockProvider)
	first, err := service.SyncUser(context.Background())
	require.NoError(t, err)
	second, err := service.SyncUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.users, 1)
}

// TestGetUserByClerkID_Empty tests that an empty ID is rejected before the repository
func TestGetUserByClerkID_Empty(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo, new(MockIdentityProvider))

	_, err := service.GetUserByClerkID(context.Background(), " ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "clerk ID is required")
	mockRepo.AssertNotCalled(t, "GetByClerkID", mock.Anything, mock.Anything)
}
