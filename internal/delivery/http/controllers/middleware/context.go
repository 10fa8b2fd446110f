package middleware

import (
	"Mumkin/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ClientIDCtx    = "client_id"
	ClientRolesCtx = "client_roles"
	ClientUserCtx  = "client_user"
)

// CurrentUser is set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.AppUser, bool) {
	v, ok := c.Get(ClientUserCtx)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.AppUser)
	return user, ok && user != nil
}
