package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/utils"
)

// WebSocketAuthMiddleware authenticates browsers that cannot set headers on upgrade requests.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("token not provided"))
			c.Abort()
			return
		}

		authenticate(c, token)
	}
}
