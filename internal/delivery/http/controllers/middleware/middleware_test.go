package middleware

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"Mumkin/internal/service/auth"
	"Mumkin/internal/session"
	"Mumkin/pkg/logger"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	users map[string]models.AuthUser
}

func (f *fakeAuth) AccessClaims(ctx context.Context, token string) (*auth.AccessTokenClaims, error) {
	if token == "expired" {
		return nil, app_errors.ErrTokenExpired
	}
	u, ok := f.users[token]
	if !ok {
		return nil, errors.New("bad signature")
	}
	return &auth.AccessTokenClaims{TokenType: auth.AccessTokenType, UserID: u.ID, Email: u.Email}, nil
}

func (f *fakeAuth) User(ctx context.Context, id uuid.UUID) (*models.AuthUser, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

type fakeResolver struct {
	roles map[uuid.UUID]string
	fail  bool
}

func (f *fakeResolver) Resolve(ctx context.Context, u models.AuthUser) (models.AppUser, error) {
	user := models.AppUser{UID: u.ID, Email: u.Email, DisplayName: "User", Role: f.roles[u.ID]}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.IsAdmin = user.Role == models.RoleAdmin
	if f.fail {
		return user, &session.ProvisionError{UserID: u.ID, Err: errors.New("db down")}
	}
	return user, nil
}

func newRouter(resolver *fakeResolver) (*gin.Engine, map[string]models.AuthUser) {
	users := map[string]models.AuthUser{
		"student-token":    {ID: uuid.New(), Email: "s@example.com"},
		"instructor-token": {ID: uuid.New(), Email: "i@example.com"},
	}
	resolver.roles = map[uuid.UUID]string{users["instructor-token"].ID: models.RoleInstructor}

	p := NewAuthMiddlewareProvider(logger.Nop(), &fakeAuth{users: users}, resolver)
	r := gin.New()
	r.GET("/me", p.AuthMiddleware, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, user.Role)
	})
	r.GET("/studio", p.AuthMiddleware, RequireRoles(models.RoleInstructor, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, users
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		header   string
		fail     bool
		wantCode int
		wantBody string
	}{
		{"no header", "/me", "", false, http.StatusUnauthorized, ""},
		{"not bearer", "/me", "Token student-token", false, http.StatusUnauthorized, ""},
		{"expired", "/me", "Bearer expired", false, http.StatusUnauthorized, "token expired"},
		{"bad token", "/me", "Bearer nope", false, http.StatusUnauthorized, "cant parse token"},
		{"student", "/me", "Bearer student-token", false, http.StatusOK, "user"},
		{"degraded profile still signed in", "/me", "Bearer student-token", true, http.StatusOK, "user"},
		{"student in studio", "/studio", "Bearer student-token", false, http.StatusForbidden, "insufficient permissions"},
		{"instructor in studio", "/studio", "Bearer instructor-token", false, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(&fakeResolver{fail: tt.fail})
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/echo", BodyLimit(4), func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		body string
		want int
	}{
		{"abc", http.StatusOK},
		{"abcdefgh", http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body)))
		if w.Code != tt.want {
			t.Errorf("POST %q = %d, want %d", tt.body, w.Code, tt.want)
		}
	}
}
