// Package session tracks the identity of a single interactive client.
package session

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"Mumkin/pkg/logger"
	"Mumkin/pkg/observable"
	"context"

	"github.com/google/uuid"
)

type authenticator interface {
	SignIn(ctx context.Context, email, password string) (*models.AuthSession, error)
	SignUp(ctx context.Context, email, password, displayName string) (*models.AuthSession, error)
	OAuthURL(state string) (string, error)
	SignInWithOAuth(ctx context.Context, code string) (*models.AuthSession, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
}

type Session struct {
	log      logger.Log
	auth     authenticator
	resolver *Resolver

	authState *observable.Value[*models.AuthSession]
	current   *observable.Value[*models.AppUser]
}

func New(log logger.Log, auth authenticator, resolver *Resolver) *Session {
	return &Session{
		log:       log,
		auth:      auth,
		resolver:  resolver,
		authState: observable.New[*models.AuthSession](nil),
		current:   observable.New[*models.AppUser](nil),
	}
}

// CurrentUser is nil while signed out.
func (s *Session) CurrentUser() observable.Reader[*models.AppUser] {
	return s.current
}

// AccessToken of the active auth session, empty when signed out.
func (s *Session) AccessToken() string {
	if as := s.authState.Get(); as != nil {
		return as.AccessToken
	}
	return ""
}

// Run follows auth state changes and republishes the resolved user until
// ctx is done.
func (s *Session) Run(ctx context.Context) {
	changes, cancel := s.authState.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case as, ok := <-changes:
			if !ok {
				return
			}
			s.apply(ctx, as)
		}
	}
}

func (s *Session) apply(ctx context.Context, as *models.AuthSession) {
	if as == nil {
		s.current.Publish(nil)
		return
	}
	user, err := s.resolver.Resolve(ctx, as.User)
	if err != nil {
		s.log.ErrorErr("session: profile provisioning failed, continuing with auth identity", err, "user_id", as.User.ID)
	}
	s.current.Publish(&user)
}

func (s *Session) SignInWithPassword(ctx context.Context, email, password string) error {
	as, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.authState.Publish(as)
	return nil
}

func (s *Session) SignUp(ctx context.Context, email, password, displayName string) error {
	as, err := s.auth.SignUp(ctx, email, password, displayName)
	if err != nil {
		return err
	}
	s.authState.Publish(as)
	return nil
}

func (s *Session) OAuthURL(state string) (string, error) {
	return s.auth.OAuthURL(state)
}

func (s *Session) SignInWithOAuth(ctx context.Context, code string) error {
	as, err := s.auth.SignInWithOAuth(ctx, code)
	if err != nil {
		return err
	}
	s.authState.Publish(as)
	return nil
}

func (s *Session) SignOut(ctx context.Context) error {
	as := s.authState.Get()
	if as == nil {
		return nil
	}
	if err := s.auth.SignOut(ctx, as.User.ID); err != nil {
		return err
	}
	s.authState.Publish(nil)
	return nil
}

// Await blocks until a user is signed in or ctx is done.
func (s *Session) Await(ctx context.Context) (*models.AppUser, error) {
	updates, cancel := s.current.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return nil, app_errors.ErrNotAuthenticated
		case u := <-updates:
			if u != nil {
				return u, nil
			}
		}
	}
}
