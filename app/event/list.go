package event

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

func EventList(c *gin.Context, d *internal.Deps) {
	user := render.MustUser(c)

	events, err := d.Events.List(c.Request.Context(), user)
	if err != nil {
		render.Error(c, err)
		return
	}

	if !render.WantsHTML(c) {
		c.JSON(http.StatusOK, events)
		return
	}

	render.Page(c, http.StatusOK, "events.html", gin.H{
		"Title":  "Events",
		"Events": events,
	})
}
