package user

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

func UserLogout(c *gin.Context, d *internal.Deps) {
	setSessionCookie(c, d, "", -1)

	render.Done(c, http.StatusOK, "/auth/login", gin.H{
		"message": "Logged out",
	})
}
