package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carebridge/portal/backend/internal/api/handlers"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
)

type stubAuthService struct {
	registerErr error
	loginErr    error
}

func (s *stubAuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*entities.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &entities.User{ID: "user-1", Email: email, FirstName: firstName, LastName: lastName}, nil
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return "a.jwt.token", &entities.User{ID: "user-1", Email: email}, nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler := handlers.NewAuthHandler(&stubAuthService{})

	body := `{"email":"ada@example.com","password":"s3cret!","first_name":"Ada","last_name":"Obi"}`
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var user entities.User
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&user))
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Empty(t, user.Password)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler := handlers.NewAuthHandler(&stubAuthService{
		registerErr: apperrors.NewConflictError("email already registered"),
	})

	body := `{"email":"ada@example.com","password":"s3cret!"}`
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	handler := handlers.NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token and user", func(t *testing.T) {
		handler := handlers.NewAuthHandler(&stubAuthService{})

		body := `{"email":"ada@example.com","password":"s3cret!"}`
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, `"a.jwt.token"`, string(response["token"]))
	})

	t.Run("bad credentials read as 401", func(t *testing.T) {
		handler := handlers.NewAuthHandler(&stubAuthService{
			loginErr: apperrors.NewUnauthorizedError("invalid credentials"),
		})

		body := `{"email":"ada@example.com","password":"wrong"}`
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
