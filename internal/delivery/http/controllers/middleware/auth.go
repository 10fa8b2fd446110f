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
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthService interface {
	AccessClaims(ctx context.Context, token string) (*auth.AccessTokenClaims, error)
	User(ctx context.Context, id uuid.UUID) (*models.AuthUser, error)
}

type ProfileResolver interface {
	Resolve(ctx context.Context, u models.AuthUser) (models.AppUser, error)
}

type AuthMiddlewareProvider struct {
	log      logger.Log
	service  AuthService
	resolver ProfileResolver
}

func NewAuthMiddlewareProvider(log logger.Log, s AuthService, r ProfileResolver) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:      log,
		service:  s,
		resolver: r,
	}
}

func bearerToken(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := h.service.AccessClaims(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		h.log.Debug("failed to parse token", "error", err.Error())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "cant parse token"})
		return
	}

	authUser, err := h.service.User(c.Request.Context(), claims.UserID)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, err := h.resolver.Resolve(c.Request.Context(), *authUser)
	if err != nil {
		var perr *session.ProvisionError
		if !errors.As(err, &perr) {
			h.log.ErrorErr("failed to resolve user", err, "user_id", authUser.ID)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		// the degraded user is still signed in
		h.log.ErrorErr("profile provisioning failed", err, "user_id", authUser.ID)
	}

	c.Set(ClientIDCtx, user.UID)
	c.Set(ClientUserCtx, &user)
	c.Set(ClientRolesCtx, []string{user.Role})
	c.Next()
}
