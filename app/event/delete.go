package event

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

// EventDelete removes an event with all of its invites
func EventDelete(c *gin.Context, d *internal.Deps) {
	user := render.MustUser(c)

	if err := d.Events.Delete(c.Request.Context(), user, c.Param("event_id")); err != nil {
		render.Error(c, err)
		return
	}

	render.Done(c, http.StatusOK, "/events", gin.H{
		"message": "Event deleted",
	})
}
