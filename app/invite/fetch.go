package invite

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

// InviteFetch shows one invite. Viewing never accepts it
func InviteFetch(c *gin.Context, d *internal.Deps) {
	user := render.MustUser(c)

	invite, err := d.Invites.Get(c.Request.Context(), user, c.Param("invite_id"))
	if err != nil {
		render.Error(c, err)
		return
	}

	if !render.WantsHTML(c) {
		c.JSON(http.StatusOK, invite)
		return
	}

	render.Page(c, http.StatusOK, "invite.html", gin.H{
		"Title":  invite.Fullname,
		"Invite": invite,
	})
}
