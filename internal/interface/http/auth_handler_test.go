package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventnest/identity-service/internal/application"
	"github.com/eventnest/identity-service/internal/domain/entity"
	"github.com/eventnest/identity-service/internal/domain/repository"
	handlers "github.com/eventnest/identity-service/internal/interface/http"
	"github.com/eventnest/identity-service/internal/interface/middleware"
	"github.com/eventnest/identity-service/pkg/helpers"
	"github.com/eventnest/identity-service/pkg/mailer"
	"github.com/eventnest/identity-service/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

// stubRepo is a minimal in-memory UserRepository for handler tests.
type stubRepo struct {
	seq   int
	users map[string]*entity.User
}

func newStubRepo() *stubRepo { return &stubRepo{users: map[string]*entity.User{}} }

func (s *stubRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range s.users {
		if e.Email == u.Email || e.Mobile == u.Mobile {
			return repository.ErrDuplicate
		}
	}
	s.seq++
	u.ID = fmt.Sprintf("u%d", s.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubRepo) GetByEmailOrMobile(_ context.Context, email, mobile string) (*entity.User, error) {
	for _, u := range s.users {
		if u.Email == email || u.Mobile == mobile {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubRepo) SetOTP(_ context.Context, id, code string, expiresAt time.Time) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PendingOTP = code
	u.OTPExpiresAt = expiresAt
	return nil
}

func (s *stubRepo) MarkVerified(_ context.Context, id string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsVerified = true
	u.PendingOTP = ""
	u.OTPExpiresAt = time.Time{}
	return nil
}

func (s *stubRepo) Update(_ context.Context, u *entity.User) error {
	stored, ok := s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = u.Name
	stored.ProfileImageURL = u.ProfileImageURL
	return nil
}

func (s *stubRepo) ListRegistrationIDs(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

type stubMail struct{ jobs []mailer.EmailJob }

func (m *stubMail) PublishJSON(_ context.Context, body any) error {
	if job, ok := body.(mailer.EmailJob); ok {
		m.jobs = append(m.jobs, job)
	}
	return nil
}

func newTestRouter() (*gin.Engine, *stubRepo) {
	repo := newStubRepo()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	svc := application.NewService(
		repo, jwt, nil, &stubMail{}, logger, nil, "", "EventNest",
		application.OTPPolicy{Alphabet: helpers.DefaultOTPAlphabet, Length: 6, TTL: 10 * time.Minute},
		1<<20,
	)
	ah := handlers.NewAuthHandler(svc, logger)
	uh := handlers.NewUserHandler(svc, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", ah.Register)
	api.POST("/auth/verify", ah.Verify)
	api.POST("/auth/otp/resend", ah.ResendOTP)
	api.POST("/auth/login", ah.Login)
	api.GET("/profile", middleware.Auth(jwt), uh.GetProfile)
	return r, repo
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var registerPayload = gin.H{
	"name":     "Asha Rao",
	"email":    "asha@test.com",
	"mobile":   "9876543210",
	"password": "password123",
}

func otpFor(t *testing.T, repo *stubRepo, email string) string {
	t.Helper()
	u, err := repo.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotEmpty(t, u.PendingOTP)
	return u.PendingOTP
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, _ := newTestRouter()
		w := postJSON(t, r, "/api/auth/register", registerPayload)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "OTP sent to your email", body["message"])
	})

	t.Run("binding failure reports fields", func(t *testing.T) {
		r, _ := newTestRouter()
		payload := gin.H{"name": "Asha Rao", "email": "asha@test.com", "mobile": "9876543210", "password": "123"}
		w := postJSON(t, r, "/api/auth/register", payload)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		details, ok := body["error"].(map[string]any)
		require.True(t, ok, "expected field details, got %v", body["error"])
		assert.Contains(t, details, "password")
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		r, _ := newTestRouter()
		require.Equal(t, http.StatusCreated, postJSON(t, r, "/api/auth/register", registerPayload).Code)

		w := postJSON(t, r, "/api/auth/register", registerPayload)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestVerifyAndLoginEndpoints(t *testing.T) {
	r, repo := newTestRouter()
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/api/auth/register", registerPayload).Code)

	t.Run("login before verification is rejected", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/login", gin.H{"email": "asha@test.com", "password": "password123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong otp", func(t *testing.T) {
		code := otpFor(t, repo, "asha@test.com")
		wrong := "AAAAAA"
		if wrong == code {
			wrong = "BBBBBB"
		}
		w := postJSON(t, r, "/api/auth/verify", gin.H{"email": "asha@test.com", "otp": wrong})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("verify then login", func(t *testing.T) {
		code := otpFor(t, repo, "asha@test.com")
		w := postJSON(t, r, "/api/auth/verify", gin.H{"email": "asha@test.com", "otp": code})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = postJSON(t, r, "/api/auth/login", gin.H{"email": "asha@test.com", "password": "password123"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decode(t, w)
		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		token, _ := data["token"].(string)
		require.NotEmpty(t, token)

		t.Run("token grants profile access", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			pw := httptest.NewRecorder()
			r.ServeHTTP(pw, req)

			require.Equal(t, http.StatusOK, pw.Code, pw.Body.String())
			profile := decode(t, pw)
			pdata, ok := profile["data"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "asha@test.com", pdata["email"])
			assert.NotContains(t, pdata, "password")
			assert.NotContains(t, pdata, "pending_otp")
		})
	})

	t.Run("profile without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestResendEndpoint(t *testing.T) {
	r, repo := newTestRouter()
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/api/auth/register", registerPayload).Code)

	w := postJSON(t, r, "/api/auth/otp/resend", gin.H{"email": "asha@test.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, otpFor(t, repo, "asha@test.com"), 6)

	t.Run("unknown address still acknowledged", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/otp/resend", gin.H{"email": "nobody@test.com"})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
