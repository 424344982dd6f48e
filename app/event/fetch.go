package event

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

// EventFetch shows a single event together with its invites
func EventFetch(c *gin.Context, d *internal.Deps) {
	user := render.MustUser(c)

	event, err := d.Events.Get(c.Request.Context(), user, c.Param("event_id"))
	if err != nil {
		render.Error(c, err)
		return
	}

	invites, err := d.Invites.ListForEvent(c.Request.Context(), user, event.ID)
	if err != nil {
		render.Error(c, err)
		return
	}

	if !render.WantsHTML(c) {
		c.JSON(http.StatusOK, gin.H{
			"event":   event,
			"invites": invites,
		})
		return
	}

	render.Page(c, http.StatusOK, "event.html", gin.H{
		"Title":   event.Name,
		"Event":   event,
		"Invites": invites,
	})
}
