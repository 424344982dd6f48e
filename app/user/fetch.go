package user

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

// UserFetch returns the public fields of the logged in user
func UserFetch(c *gin.Context) {
	c.JSON(http.StatusOK, render.MustUser(c))
}
