package auth

import (
	"Mumkin/internal/delivery/http/controllers/middleware"
	"Mumkin/internal/delivery/http/controllers/response"
	"Mumkin/internal/models"
	"Mumkin/pkg/logger"
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

type AuthService interface {
	SignUp(ctx context.Context, email, password, displayName string) (*models.AuthSession, error)
	SignIn(ctx context.Context, email, password string) (*models.AuthSession, error)
	OAuthURL(state string) (string, error)
	SignInWithOAuth(ctx context.Context, code string) (*models.AuthSession, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
	RefreshTokens(ctx context.Context, token string) (*models.AuthSession, error)
}

type ProfileResolver interface {
	Resolve(ctx context.Context, u models.AuthUser) (models.AppUser, error)
}

type AuthHandler struct {
	AuthService AuthService
	resolver    ProfileResolver
	log         logger.Log
}

func NewAuthHandler(l logger.Log, auth AuthService, resolver ProfileResolver) *AuthHandler {
	return &AuthHandler{
		AuthService: auth,
		resolver:    resolver,
		log:         l,
	}
}

type sessionResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	User         *models.AppUser `json:"user"`
}

// respond resolves the profile of a fresh session. A provisioning failure
// still signs the user in with the degraded identity.
func (h *AuthHandler) respond(c *gin.Context, status int, as *models.AuthSession) {
	user, err := h.resolver.Resolve(c.Request.Context(), as.User)
	if err != nil {
		h.log.ErrorErr("profile provisioning failed", err, "user_id", as.User.ID)
	}
	c.JSON(status, sessionResponse{
		AccessToken:  as.AccessToken,
		RefreshToken: as.RefreshToken,
		User:         &user,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	as, err := h.AuthService.SignUp(c.Request.Context(), input.Email, input.Password, input.DisplayName)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, http.StatusCreated, as)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	as, err := h.AuthService.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, http.StatusOK, as)
}

type tokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenRefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input tokenRefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	as, err := h.AuthService.RefreshTokens(c.Request.Context(), input.RefreshToken)
	if err != nil {
		if response.Status(err) == http.StatusInternalServerError {
			// malformed and foreign tokens end up here
			h.log.Debug("refresh rejected", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenRefreshResponse{
		AccessToken:  as.AccessToken,
		RefreshToken: as.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.AuthService.SignOut(c.Request.Context(), user.UID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) GoogleURL(c *gin.Context) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		response.Error(c, err)
		return
	}
	state := hex.EncodeToString(buf)
	url, err := h.AuthService.OAuthURL(state)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"url": url, "state": state})
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	if expected, err := c.Cookie(oauthStateCookie); err == nil && expected != state {
		response.BadRequest(c, "oauth state mismatch")
		return
	}
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "code is required")
		return
	}

	as, err := h.AuthService.SignInWithOAuth(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	h.respond(c, http.StatusOK, as)
}
