package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopeasy/shopeasy-engine/internal/domain/entity"
	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
	"github.com/shopeasy/shopeasy-engine/pkg/response"
)

// Auth validates the access token against the single persisted session. The
// token must parse AND match the session's auth_token, so a login elsewhere
// invalidates older cookies even before they expire. Sets userID, userName,
// and userEmail in the Gin context on success.
func Auth(store repository.Store, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		var sess entity.Session
		found, err := store.Get(c.Request.Context(), repository.KeyCurrentSession, &sess)
		if err != nil || !found || !sess.LoggedIn {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}
		if sess.AuthToken != token || sess.CurrentUser.ID != claims.UserID {
			response.Error[any](c, http.StatusUnauthorized, "session superseded", nil)
			c.Abort()
			return
		}

		c.Set("userID", sess.CurrentUser.ID)
		c.Set("userName", sess.CurrentUser.Name)
		c.Set("userEmail", sess.CurrentUser.Email)
		c.Next()
	}
}
