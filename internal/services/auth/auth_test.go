package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avdeevakate/online-school/internal/lib/jwt"
	"github.com/avdeevakate/online-school/internal/lib/password"
	"github.com/avdeevakate/online-school/internal/models"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserRepoMock) UsernameExists(ctx context.Context, username, excludeID string) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

type JwtMakerMock struct{ mock.Mock }

func (m *JwtMakerMock) GenerateToken(userID, username, role string) (string, error) {
	args := m.Called(userID, username, role)
	return args.String(0), args.Error(1)
}
func (m *JwtMakerMock) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAuthService_Register(t *testing.T) {
	req := models.DummyRegister{
		Name:      "Ivan",
		Surname:   "Petrov",
		Username:  "ivan42",
		BirthDate: "2000-05-10",
		Password:  "secret123",
	}

	t.Run("успешная регистрация выдаёт роль USER", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		repo.On("UsernameExists", mock.Anything, "ivan42", "").Return(false, nil)
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Role == models.RoleUser && u.Username == "ivan42" && u.PasswordHash != "secret123"
		})).Return("user-id", nil)
		maker.On("GenerateToken", "user-id", "ivan42", models.RoleUser).Return("token", nil)

		svc := NewAuthService(repo, maker, newNoopLogger())
		token, err := svc.Register(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "token", token)
		repo.AssertExpectations(t)
		maker.AssertExpectations(t)
	})

	t.Run("роль из запроса игнорируется", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		reqAdmin := req
		reqAdmin.Role = models.RoleAdmin
		repo.On("UsernameExists", mock.Anything, "ivan42", "").Return(false, nil)
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Role == models.RoleUser
		})).Return("user-id", nil)
		maker.On("GenerateToken", "user-id", "ivan42", models.RoleUser).Return("token", nil)

		svc := NewAuthService(repo, maker, newNoopLogger())
		_, err := svc.Register(context.Background(), reqAdmin)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("занятый username", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		repo.On("UsernameExists", mock.Anything, "ivan42", "").Return(true, nil)

		svc := NewAuthService(repo, maker, newNoopLogger())
		_, err := svc.Register(context.Background(), req)

		assert.ErrorIs(t, err, models.ErrUsernameTaken)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("дата рождения в будущем", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		reqFuture := req
		reqFuture.BirthDate = time.Now().AddDate(1, 0, 0).Format("2006-01-02")

		svc := NewAuthService(repo, maker, newNoopLogger())
		_, err := svc.Register(context.Background(), reqFuture)

		assert.ErrorIs(t, err, models.ErrBirthDateInFuture)
	})

	t.Run("некорректный формат даты рождения", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		reqBad := req
		reqBad.BirthDate = "10-05-2000"

		svc := NewAuthService(repo, maker, newNoopLogger())
		_, err := svc.Register(context.Background(), reqBad)

		assert.ErrorIs(t, err, models.ErrInvalidBirthDate)
	})
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.GetHash("secret123")
	assert.NoError(t, err)

	user := &models.User{
		ID:           "user-id",
		Username:     "ivan42",
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}

	t.Run("успешный вход", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		repo.On("GetUserByUsername", mock.Anything, "ivan42").Return(user, nil)
		maker.On("GenerateToken", "user-id", "ivan42", models.RoleUser).Return("token", nil)

		svc := NewAuthService(repo, maker, newNoopLogger())
		token, err := svc.Login(context.Background(), "ivan42", "secret123")

		assert.NoError(t, err)
		assert.Equal(t, "token", token)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		repo.On("GetUserByUsername", mock.Anything, "ivan42").Return(user, nil)

		svc := NewAuthService(repo, maker, newNoopLogger())
		_, err := svc.Login(context.Background(), "ivan42", "wrongpass")

		assert.ErrorIs(t, err, models.ErrWrongCredentials)
	})

	t.Run("неизвестный пользователь даёт ту же ошибку", func(t *testing.T) {
		repo := new(UserRepoMock)
		maker := new(JwtMakerMock)
		repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, models.ErrProfileNotFound)

		svc := NewAuthService(repo, maker, newNoopLogger())
		_, err := svc.Login(context.Background(), "ghost", "secret123")

		assert.ErrorIs(t, err, models.ErrWrongCredentials)
	})
}
