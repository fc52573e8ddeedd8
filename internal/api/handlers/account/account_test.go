package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Vidora/internal/api/middleware"
	"Vidora/internal/core/blobs"
	"Vidora/internal/core/users"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Signup(ctx context.Context, req users.SignupRequest) (*users.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.AuthResult), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, req users.LoginRequest) (*users.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.AuthResult), args.Error(1)
}

func (m *mockUserService) Me(ctx context.Context, userID string) (*users.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *mockUserService) RequestPasswordReset(ctx context.Context, req users.PasswordResetRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockUserService) ResetPassword(ctx context.Context, req users.ResetPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func TestSignup_Multipart(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Signup", mock.Anything, mock.MatchedBy(func(req users.SignupRequest) bool {
		return req.Email == "a@b.co" && req.ProfileImage != nil && req.ProfileImage.Name == "me.png"
	})).Return(&users.AuthResult{User: &users.User{ID: "u1"}, Token: "tok"}, nil)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("firstName", "Ada"))
	require.NoError(t, mw.WriteField("lastName", "L"))
	require.NoError(t, mw.WriteField("email", "a@b.co"))
	require.NoError(t, mw.WriteField("password", "secret1"))
	part, err := mw.CreateFormFile("profileImage", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/signup", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	NewSignupHandler(svc, 1<<20).HandleSignup(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp users.AuthResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "tok", resp.Token)
	svc.AssertExpectations(t)
}

func TestSignup_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{users.ErrEmailTaken, http.StatusConflict},
		{users.ErrInvalidEmail, http.StatusBadRequest},
		{blobs.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		svc := new(mockUserService)
		svc.On("Signup", mock.Anything, mock.Anything).Return(nil, tt.err)

		req := httptest.NewRequest(http.MethodPost, "/api/signup",
			strings.NewReader(`{"firstName":"A","lastName":"B","email":"x@y.co","password":"secret1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		NewSignupHandler(svc, 1<<20).HandleSignup(w, req)

		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}
}

func TestSignup_ImageTooLarge(t *testing.T) {
	svc := new(mockUserService)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("email", "a@b.co"))
	part, err := mw.CreateFormFile("profileImage", "big.png")
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte("x"), 2048))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/signup", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	NewSignupHandler(svc, 1024).HandleSignup(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Login", mock.Anything, users.LoginRequest{Email: "a@b.co", Password: "pw"}).
		Return(&users.AuthResult{User: &users.User{ID: "u1"}, Token: "tok"}, nil)
	svc.On("Login", mock.Anything, users.LoginRequest{Email: "a@b.co", Password: "bad"}).
		Return(nil, users.ErrInvalidCredentials)

	handler := NewLoginHandler(svc)

	w := httptest.NewRecorder()
	handler.HandleLogin(w, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"a@b.co","password":"pw"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.HandleLogin(w, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"a@b.co","password":"bad"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	handler.HandleLogin(w, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	channelID := "c1"
	svc := new(mockUserService)
	svc.On("Me", mock.Anything, "u1").Return(&users.User{ID: "u1", ChannelID: &channelID}, nil)
	handler := NewMeHandler(svc)

	w := httptest.NewRecorder()
	handler.HandleMe(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(middleware.SetTestUserID(req.Context(), "u1"))
	w = httptest.NewRecorder()
	handler.HandleMe(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"channelId":"c1"`)
}

func TestResetRequest(t *testing.T) {
	svc := new(mockUserService)
	svc.On("RequestPasswordReset", mock.Anything, users.PasswordResetRequest{Email: "ada@example.com"}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reset-request", strings.NewReader(`{"email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	NewResetHandler(svc).HandleResetRequest(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Reset code sent successfully!"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestResetRequest_ErrorMapping(t *testing.T) {
	tests := []struct {
		err     error
		errType string
		status  int
	}{
		{users.ErrUserNotFound, "UserNotFound", http.StatusNotFound},
		{fmt.Errorf("%w: relay down", users.ErrMailUnavailable), "MailUnavailable", http.StatusServiceUnavailable},
		{users.NewValidationError("email", "email is required"), "InvalidRequest", http.StatusBadRequest},
	}

	for _, tt := range tests {
		svc := new(mockUserService)
		svc.On("RequestPasswordReset", mock.Anything, mock.Anything).Return(tt.err)

		req := httptest.NewRequest(http.MethodPost, "/api/reset-request", strings.NewReader(`{"email":"x@y.co"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		NewResetHandler(svc).HandleResetRequest(w, req)

		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), tt.errType)
	}
}

func TestResetPassword(t *testing.T) {
	svc := new(mockUserService)
	svc.On("ResetPassword", mock.Anything, users.ResetPasswordRequest{
		Email:       "ada@example.com",
		Code:        "482913",
		NewPassword: "difference-engine",
	}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reset-password",
		strings.NewReader(`{"email":"ada@example.com","code":"482913","newPassword":"difference-engine"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	NewResetHandler(svc).HandleResetPassword(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Password has been changed successfully!"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestResetPassword_ErrorMapping(t *testing.T) {
	tests := []struct {
		err     error
		errType string
		status  int
	}{
		{users.ErrInvalidResetCode, "InvalidResetCode", http.StatusUnauthorized},
		{users.ErrUserNotFound, "UserNotFound", http.StatusNotFound},
		{assert.AnError, "InternalServerError", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		svc := new(mockUserService)
		svc.On("ResetPassword", mock.Anything, mock.Anything).Return(tt.err)

		req := httptest.NewRequest(http.MethodPost, "/api/reset-password",
			strings.NewReader(`{"email":"ada@example.com","code":"000000","newPassword":"difference-engine"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		NewResetHandler(svc).HandleResetPassword(w, req)

		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), tt.errType)
	}
}

func TestResetPassword_MalformedBody(t *testing.T) {
	svc := new(mockUserService)

	req := httptest.NewRequest(http.MethodPost, "/api/reset-password", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	NewResetHandler(svc).HandleResetPassword(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything)
}
