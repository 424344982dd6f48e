// Package root contains handlers that don't belong to any resource
package root

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Heartbeat reports whether the server and its database are reachable
func Heartbeat(c *gin.Context, d *internal.Deps) {
	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}

	if err != nil {
		zap.L().Error("Heartbeat failed", zap.Error(err))
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.Status(http.StatusOK)
}

// Index sends visitors to their events, the auth gate takes care of the
// ones that aren't logged in
func Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/events")
}
