package middleware

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal/service"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie holding the session token
const SessionCookie = "tk"

// NewJWTMiddleware rejects requests without a valid session. The
// authenticated user is stored as "user" and its ID as "userID"
func NewJWTMiddleware(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A missing cookie is handled by Authenticate
		token, _ := c.Cookie(SessionCookie)

		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			if render.WantsHTML(c) && service.KindOf(err) == service.KindUnauthorized {
				c.Redirect(http.StatusFound, "/auth/login")
				c.Abort()
				return
			}

			render.Error(c, err)
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}
