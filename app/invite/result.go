package invite

import (
	"net/http"
	"strings"

	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

func VerificationResult(c *gin.Context) {
	message, ok := c.GetQuery("message")
	if !ok {
		render.Message(c, http.StatusBadRequest, "message url search parameter is required")
		return
	}

	if !strings.HasSuffix(message, "valid") {
		render.Message(c, http.StatusBadRequest, "invalid message search parameter")
		return
	}

	// The page is cached per URL, so it must not contain anything about
	// the logged in user
	render.Page(c, http.StatusOK, "verification_result.html", gin.H{
		"Title":   "Verification result",
		"Message": message,
		"User":    nil,
	})
}
