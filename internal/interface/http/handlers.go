// Package handlers exposes the commerce engine over HTTP. Handlers bind and
// validate payloads, call the application services, and translate engine
// errors into the shared response envelope.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopeasy/shopeasy-engine/internal/domain/apperr"
	"github.com/shopeasy/shopeasy-engine/internal/domain/entity"
	"github.com/shopeasy/shopeasy-engine/pkg/response"
)

// fail maps an engine error to its HTTP status. The engine's messages are
// user-facing by design, so they pass through unchanged.
func fail(c *gin.Context, err error) {
	response.Error[any](c, apperr.HTTPStatus(err), err.Error(), nil)
}

// userView strips the credential fields from a user record.
func userView(u *entity.User) gin.H {
	return gin.H{
		"user_id":       u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"mobile_number": u.MobileNumber,
		"address":       u.Address,
		"avatar_url":    u.AvatarURL,
		"registered_at": u.RegisteredAt,
		"last_login":    u.LastLogin,
		"updated_at":    u.UpdatedAt,
	}
}
