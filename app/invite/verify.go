package invite

import (
	"net/http"
	"net/url"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InviteVerify is the target of the QR code. It accepts the invite and sends
// the scanner to the result page
func InviteVerify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user := render.MustUser(c)

	invite, err := d.Invites.Verify(c.Request.Context(), user, c.Param("invite_code"))
	if err != nil {
		render.Error(c, err)
		return
	}

	zap.L().Info("Invite accepted", zap.String("inviteID", invite.ID), zap.String("requestID", requestID))

	q := url.Values{"message": {invite.Fullname + "'s invite is valid"}}
	c.Redirect(http.StatusFound, "/events/verification-result?"+q.Encode())
}
