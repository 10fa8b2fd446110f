package auth

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"Mumkin/pkg/logger"
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"

	minPasswordLen = 6
	// bcrypt ignores everything past 72 bytes
	maxPasswordLen = 72
)

type AuthRepo interface {
	CreateUser(ctx context.Context, user models.AuthUser) (*models.AuthUser, error)
	UserByEmail(ctx context.Context, email string) (*models.AuthUser, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.AuthUser, error)
}

type tokenRepo interface {
	Create(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	ByPrimaryKey(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) error
}

type AuthService struct {
	log        logger.Log
	jwtManager *JWTManager
	authRepo   AuthRepo
	tokenRepo  tokenRepo
	google     *GoogleProvider
}

func NewAuthService(l logger.Log, manager *JWTManager, aRepo AuthRepo, tRepo tokenRepo, google *GoogleProvider) *AuthService {
	return &AuthService{
		log:        l,
		jwtManager: manager,
		authRepo:   aRepo,
		tokenRepo:  tRepo,
		google:     google,
	}
}

// AvatarFor is the generated avatar given to password sign ups.
func AvatarFor(displayName string) string {
	return "https://api.dicebear.com/8.x/initials/svg?seed=" + url.PathEscape(displayName)
}

func (u *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*models.AuthSession, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &app_errors.ValidationError{Field: "email", Message: "is required"}
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return nil, app_errors.ErrWeakPassword
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	displayName = strings.TrimSpace(displayName)
	user, err := u.authRepo.CreateUser(ctx, models.AuthUser{
		Email:        email,
		PasswordHash: hash,
		Provider:     ProviderEmail,
		Metadata: models.UserMetadata{
			FullName:  displayName,
			AvatarURL: AvatarFor(displayName),
		},
	})
	if err != nil {
		return nil, err
	}
	return u.issue(ctx, *user)
}

func (u *AuthService) SignIn(ctx context.Context, email, password string) (*models.AuthSession, error) {
	user, err := u.authRepo.UserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil, app_errors.ErrIncorrectPassword
		}
		return nil, err
	}
	if user.PasswordHash == "" || !checkPasswordHash(password, user.PasswordHash) {
		return nil, app_errors.ErrIncorrectPassword
	}
	return u.issue(ctx, *user)
}

func (u *AuthService) OAuthURL(state string) (string, error) {
	if u.google == nil {
		return "", app_errors.ErrOAuthNotConfigured
	}
	return u.google.AuthCodeURL(state), nil
}

// SignInWithOAuth exchanges a Google authorization code and signs the
// matching user in, creating it on first use.
func (u *AuthService) SignInWithOAuth(ctx context.Context, code string) (*models.AuthSession, error) {
	if u.google == nil {
		return nil, app_errors.ErrOAuthNotConfigured
	}
	info, err := u.google.Identify(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := u.authRepo.UserByEmail(ctx, info.Email)
	if errors.Is(err, app_errors.ErrUserNotFound) {
		user, err = u.authRepo.CreateUser(ctx, models.AuthUser{
			Email:    info.Email,
			Provider: ProviderGoogle,
			Metadata: models.UserMetadata{FullName: info.Name, AvatarURL: info.Picture},
		})
	}
	if err != nil {
		return nil, err
	}
	return u.issue(ctx, *user)
}

// SignOut drops every refresh token of the user.
func (u *AuthService) SignOut(ctx context.Context, userID uuid.UUID) error {
	return u.tokenRepo.DeleteUserTokens(ctx, userID)
}

func (u *AuthService) RefreshTokens(ctx context.Context, token string) (*models.AuthSession, error) {
	curToken, err := u.jwtManager.Parse(token)
	if err != nil {
		return nil, err
	}
	if !u.jwtManager.TokenType(curToken, RefreshTokenType) {
		return nil, app_errors.ErrTokenNotFound
	}
	userIDStr, err := curToken.Claims.GetSubject()
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	tokenRecord, err := u.tokenRepo.ByPrimaryKey(ctx, userID, curToken)
	if err != nil {
		return nil, err
	}
	if tokenRecord.ExpiresAt.Before(time.Now()) {
		return nil, app_errors.ErrTokenExpired
	}
	user, err := u.authRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.issue(ctx, *user)
}

func (u *AuthService) AccessClaims(ctx context.Context, token string) (*AccessTokenClaims, error) {
	return u.jwtManager.AccessClaims(token)
}

func (u *AuthService) User(ctx context.Context, id uuid.UUID) (*models.AuthUser, error) {
	return u.authRepo.UserByID(ctx, id)
}

// issue rotates the refresh token: older ones stop working.
func (u *AuthService) issue(ctx context.Context, user models.AuthUser) (*models.AuthSession, error) {
	tokenPair, err := u.jwtManager.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	if err := u.tokenRepo.DeleteUserTokens(ctx, user.ID); err != nil {
		return nil, err
	}
	if _, err := u.tokenRepo.Create(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &models.AuthSession{
		User:         user,
		AccessToken:  tokenPair.AccessToken.Raw,
		RefreshToken: tokenPair.RefreshToken.Raw,
	}, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
