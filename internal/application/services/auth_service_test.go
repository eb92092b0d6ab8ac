package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/carebridge/portal/backend/internal/application/services"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
)

// Mocks

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateMedicalInfo(ctx context.Context, id string, update repositories.UserMedicalUpdate) (*entities.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// Tests

func newAuthService(repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, "test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account with a hashed password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.ID != "" &&
				u.Email == "ada@example.com" &&
				u.Password != "s3cret!" &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cret!")) == nil
		})).Return(nil)

		user, err := service.Register(ctx, "  Ada@Example.COM ", "s3cret!", "Ada", "Obi")

		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "Ada", user.FirstName)
		assert.False(t, user.OnboardingCompleted)
		repo.AssertExpectations(t)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		_, err := service.Register(ctx, "ada@example.com", "abc", "Ada", "Obi")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		_, err := service.Register(ctx, "", "s3cret!", "Ada", "Obi")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("surfaces duplicate emails", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		repo.On("Create", mock.Anything, mock.Anything).Return(apperrors.NewConflictError("email already registered"))

		_, err := service.Register(ctx, "ada@example.com", "s3cret!", "Ada", "Obi")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	assert.NoError(t, err)
	account := &entities.User{ID: "user-1", Email: "ada@example.com", Password: string(hash)}

	t.Run("issues a token that parses back to the user", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		repo.On("GetByEmail", mock.Anything, "ada@example.com").Return(account, nil)

		token, user, err := service.Login(ctx, "ada@example.com", "s3cret!")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.NotEmpty(t, token)

		userID, err := service.ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.NewNotFoundError("User not found"))

		_, _, err := service.Login(ctx, "nobody@example.com", "s3cret!")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
		assert.Contains(t, err.Error(), "invalid credentials")
	})

	t.Run("wrong password reads as invalid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newAuthService(repo)

		repo.On("GetByEmail", mock.Anything, "ada@example.com").Return(account, nil)

		_, _, err := service.Login(ctx, "ada@example.com", "not-the-password")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
		assert.Contains(t, err.Error(), "invalid credentials")
	})
}

func TestAuthService_ParseToken(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo)

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.ParseToken("not-a-token")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		other := services.NewAuthService(repo, "other-secret", time.Hour)

		hash, hashErr := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
		assert.NoError(t, hashErr)
		repo.On("GetByEmail", mock.Anything, "ada@example.com").
			Return(&entities.User{ID: "user-1", Email: "ada@example.com", Password: string(hash)}, nil)

		token, _, err := other.Login(context.Background(), "ada@example.com", "s3cret!")
		assert.NoError(t, err)

		_, err = service.ParseToken(token)
		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
	})
}
