package invite

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

func InviteDelete(c *gin.Context, d *internal.Deps) {
	user := render.MustUser(c)

	invite, err := d.Invites.Delete(c.Request.Context(), user, c.Param("invite_id"))
	if err != nil {
		render.Error(c, err)
		return
	}

	render.Done(c, http.StatusOK, "/events/"+invite.EventInvitedTo, gin.H{
		"message": "Invite deleted",
	})
}
