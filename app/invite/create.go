// Package invite contains the handlers issuing and verifying invitations
package invite

import (
	"errors"
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/internal/service"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type inviteBody struct {
	Email    string `form:"email" json:"email" binding:"required,max=255"`
	Fullname string `form:"fullname" json:"fullname" binding:"required,max=255"`
}

func InviteCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user := render.MustUser(c)
	eventID := c.Param("event_id")

	var data inviteBody
	if err := c.ShouldBind(&data); err != nil {
		render.BindError(c, err, "Guest email and full name are required")
		return
	}

	invite, err := d.Invites.Create(c.Request.Context(), user, eventID, service.CreateInviteInput{
		Email:    data.Email,
		Fullname: data.Fullname,
	})
	if err != nil {
		if invite != nil && errors.Is(err, service.ErrEmailDeliveryFailure) && !render.WantsHTML(c) {
			zap.L().Warn("Invite created without email", zap.Error(err), zap.String("inviteID", invite.ID), zap.String("requestID", requestID))

			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":     service.Message(err),
				"invite":    invite,
				"requestID": requestID,
			})
			return
		}

		render.Error(c, err)
		return
	}

	zap.L().Info("Invite created", zap.String("inviteID", invite.ID), zap.String("eventID", eventID), zap.String("requestID", requestID))

	render.Done(c, http.StatusCreated, "/events/"+eventID, invite)
}
