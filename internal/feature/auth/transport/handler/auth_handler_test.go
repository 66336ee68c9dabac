package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event_backend/internal/feature/auth/domain"
	"event_backend/internal/feature/auth/domain/entity"
	mediadomain "event_backend/internal/feature/media/domain"
	mediaentity "event_backend/internal/feature/media/domain/entity"
	jwtmw "event_backend/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc      func(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error)
	LoginFunc         func(ctx context.Context, email, password string) (*entity.Account, string, error)
	DeleteAccountFunc func(ctx context.Context, id uint) error
}

func (m *mockAuthUsecase) Register(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, email, password, profile)
	}
	return nil, errors.New("register not configured")
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*entity.Account, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, "", errors.New("login not configured")
}

func (m *mockAuthUsecase) DeleteAccount(ctx context.Context, id uint) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, id)
	}
	return nil
}

var _ AuthUsecase = (*mockAuthUsecase)(nil)

// multipartBody はフォーム値と任意のファイルからマルチパートのリクエストボディを組み立てます。
func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) gin.H {
	t.Helper()
	var got gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func TestAuthHandler_Register(t *testing.T) {
	validFields := map[string]string{"username": "alice", "email": "alice@example.com", "password": "s3cret"}
	pic := "http://localhost:9000/event-media/profile_pictures/abc"

	tests := []struct {
		name           string
		fields         map[string]string
		file           []byte
		registerFunc   func(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "success: without profile picture",
			fields: validFields,
			registerFunc: func(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error) {
				if profile != nil {
					return nil, errors.New("unexpected profile")
				}
				return &entity.Account{ID: 1, Username: username, Email: email}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "success: with profile picture",
			fields: validFields,
			file:   []byte("\x89PNG fake"),
			registerFunc: func(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error) {
				if profile == nil || string(profile.Data) != "\x89PNG fake" || profile.Filename != "me.png" {
					return nil, errors.New("profile not forwarded")
				}
				return &entity.Account{ID: 2, Username: username, Email: email, ProfilePicture: &pic}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: missing username",
			fields:         map[string]string{"email": "alice@example.com", "password": "s3cret"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request",
		},
		{
			name:           "failure: malformed email",
			fields:         map[string]string{"username": "alice", "email": "not-an-email", "password": "s3cret"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request",
		},
		{
			name:   "failure: duplicate account",
			fields: validFields,
			registerFunc: func(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error) {
				return nil, domain.ErrAccountAlreadyExists
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "User already exists",
		},
		{
			name:   "failure: profile upload failed",
			fields: validFields,
			file:   []byte("img"),
			registerFunc: func(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error) {
				return nil, mediadomain.ErrUploadFailed
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Upload failed",
		},
		{
			name:   "failure: storage error",
			fields: validFields,
			registerFunc: func(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{RegisterFunc: tt.registerFunc}, 0)
			router := gin.New()
			router.POST("/api/auth/register", h.Register)

			fileField := ""
			if tt.file != nil {
				fileField = "profile"
			}
			body, contentType := multipartBody(t, tt.fields, fileField, "me.png", tt.file)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			got := decodeBody(t, w)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, got["message"])
				return
			}
			assert.Equal(t, "alice", got["username"])
			assert.Equal(t, "alice@example.com", got["email"])
			assert.NotContains(t, got, "password")
			assert.Contains(t, got, "_id")
		})
	}
}

func TestAuthHandler_Register_ProfileTooLarge(t *testing.T) {
	called := false
	h := NewAuthHandler(&mockAuthUsecase{
		RegisterFunc: func(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error) {
			called = true
			return &entity.Account{ID: 1}, nil
		},
	}, 4)
	router := gin.New()
	router.POST("/api/auth/register", h.Register)

	body, contentType := multipartBody(t, map[string]string{"username": "a", "email": "a@example.com", "password": "p"}, "profile", "big.png", []byte("0123456789"))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		loginFunc      func(ctx context.Context, email, password string) (*entity.Account, string, error)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success: returns account and token",
			requestBody: `{"email":"alice@example.com","password":"s3cret"}`,
			loginFunc: func(ctx context.Context, email, password string) (*entity.Account, string, error) {
				return &entity.Account{ID: 7, Username: "alice", Email: email}, "signed-token", nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "failure: invalid email format",
			requestBody:    `{"email":"nope","password":"s3cret"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request",
		},
		{
			name:           "failure: missing password",
			requestBody:    `{"email":"alice@example.com"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request",
		},
		{
			name:        "failure: unknown account",
			requestBody: `{"email":"ghost@example.com","password":"s3cret"}`,
			loginFunc: func(ctx context.Context, email, password string) (*entity.Account, string, error) {
				return nil, "", domain.ErrAccountNotFound
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "User not found",
		},
		{
			name:        "failure: wrong password",
			requestBody: `{"email":"alice@example.com","password":"wrong"}`,
			loginFunc: func(ctx context.Context, email, password string) (*entity.Account, string, error) {
				return nil, "", domain.ErrInvalidCredentials
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid credentials",
		},
		{
			name:        "failure: token signing error",
			requestBody: `{"email":"alice@example.com","password":"s3cret"}`,
			loginFunc: func(ctx context.Context, email, password string) (*entity.Account, string, error) {
				return nil, "", errors.New("sign failed")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.loginFunc}, 0)
			router := gin.New()
			router.POST("/api/auth/login", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			got := decodeBody(t, w)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, got["message"])
				return
			}
			assert.Equal(t, "signed-token", got["token"])
			assert.Equal(t, float64(7), got["_id"])
			assert.NotContains(t, got, "password")
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(&mockAuthUsecase{}, 0)
	router := gin.New()
	router.POST("/api/auth/logout", h.Logout)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User logged out successfully","token":null}`, w.Body.String())
}

func TestAuthHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		callerID       uint
		deleteFunc     func(ctx context.Context, id uint) error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:     "success: delete self",
			path:     "/api/auth/delete",
			callerID: 3,
			deleteFunc: func(ctx context.Context, id uint) error {
				if id != 3 {
					return errors.New("wrong id")
				}
				return nil
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "User deleted successfully",
		},
		{
			name:           "success: delete by matching id",
			path:           "/api/auth/delete/3",
			callerID:       3,
			deleteFunc:     func(ctx context.Context, id uint) error { return nil },
			expectedStatus: http.StatusOK,
			expectedMsg:    "User deleted successfully",
		},
		{
			name:           "failure: other account",
			path:           "/api/auth/delete/4",
			callerID:       3,
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "Forbidden",
		},
		{
			name:           "failure: non-numeric id",
			path:           "/api/auth/delete/abc",
			callerID:       3,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid account id",
		},
		{
			name:           "failure: account already gone",
			path:           "/api/auth/delete",
			callerID:       3,
			deleteFunc:     func(ctx context.Context, id uint) error { return domain.ErrAccountNotFound },
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "User not found",
		},
		{
			name:           "failure: storage error",
			path:           "/api/auth/delete",
			callerID:       3,
			deleteFunc:     func(ctx context.Context, id uint) error { return errors.New("db down") },
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			uc := &mockAuthUsecase{DeleteAccountFunc: func(ctx context.Context, id uint) error {
				called = true
				if tt.deleteFunc != nil {
					return tt.deleteFunc(ctx, id)
				}
				return nil
			}}
			h := NewAuthHandler(uc, 0)

			router := gin.New()
			authed := router.Group("/api/auth", func(c *gin.Context) {
				c.Set(jwtmw.ContextAccountID, tt.callerID)
				c.Next()
			})
			authed.DELETE("/delete", h.Delete)
			authed.DELETE("/delete/:id", h.Delete)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMsg, decodeBody(t, w)["message"])
			if tt.expectedStatus == http.StatusForbidden || tt.expectedStatus == http.StatusBadRequest {
				assert.False(t, called)
			}
		})
	}
}

func TestAuthHandler_Delete_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthUsecase{}, 0)
	router := gin.New()
	router.DELETE("/api/auth/delete", h.Delete)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/auth/delete", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
