package event

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func EventUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user := render.MustUser(c)

	var data eventBody
	if err := c.ShouldBind(&data); err != nil {
		render.BindError(c, err, "Name, description, start and end date are required")
		return
	}

	event, err := d.Events.Update(c.Request.Context(), user, c.Param("event_id"), data.input())
	if err != nil {
		render.Error(c, err)
		return
	}

	zap.L().Debug("Event updated", zap.String("eventID", event.ID), zap.String("requestID", requestID))

	render.Done(c, http.StatusOK, "/events/"+event.ID, event)
}
