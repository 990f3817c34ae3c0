package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratm1304/FouShack/internal/auth"
	"github.com/pratm1304/FouShack/internal/users"
	pkgerrors "github.com/pratm1304/FouShack/pkg/errors"
)

type stubAuthService struct {
	refresh auth.RefreshRequest
	logout  string
	err     error
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh", User: &users.UserDTO{Email: req.Email}}, nil
}

func (s *stubAuthService) Refresh(_ context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	s.refresh = req
	if s.err != nil {
		return nil, s.err
	}
	return &auth.RefreshResponse{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.logout = token
	return s.err
}

type stubRegisterService struct {
	err error
}

func (s stubRegisterService) Register(_ context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &users.UserDTO{Email: req.Email}, nil
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"chef@foushack.test","password":"croissant1"}`))
	rec := httptest.NewRecorder()
	AuthLogin(&stubAuthService{}, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "access", rec.Header().Get(tokenHeader))
}

func TestAuthLoginErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email","password":"x"}`))
	rec := httptest.NewRecorder()
	AuthLogin(&stubAuthService{}, testLogger()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"chef@foushack.test","password":"wrong"}`))
	rec = httptest.NewRecorder()
	AuthLogin(svc, testLogger()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestAuthRefreshUsesBearerToken(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"refresh"}`))
	req.Header.Set("Authorization", "Bearer old-access")
	rec := httptest.NewRecorder()
	AuthRefresh(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "old-access", svc.refresh.AccessToken)
	assert.Equal(t, "refresh", svc.refresh.RefreshToken)
	assert.Equal(t, "access-2", rec.Header().Get(tokenHeader))
}

func TestAuthRefreshRequiresToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"refresh"}`))
	rec := httptest.NewRecorder()
	AuthRefresh(&stubAuthService{}, testLogger()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthLogout(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()
	AuthLogout(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "token-1", svc.logout)
}

func TestAuthRegister(t *testing.T) {
	body := `{"email":"new@foushack.test","password":"croissant1","display_name":"New Baker"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthRegister(stubRegisterService{}, testLogger()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", strings.NewReader(body))
	rec = httptest.NewRecorder()
	AuthRegister(stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}, testLogger()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", strings.NewReader(`{"email":"new@foushack.test","password":"croissant1","display_name":"x","role":"owner"}`))
	rec = httptest.NewRecorder()
	AuthRegister(stubRegisterService{}, testLogger()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
