package user

import (
	"net/http"
	"net/url"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
)

const resetRequestedMsg = "If an account exists for that email, a password reset link has been sent to it"

type resetRequestBody struct {
	Email string `form:"email" json:"email" binding:"required,max=255"`
}

type resetBody struct {
	Key      string `form:"key" json:"key" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func PasswordResetRequest(c *gin.Context, d *internal.Deps) {
	var data resetRequestBody
	if err := c.ShouldBind(&data); err != nil {
		render.BindError(c, err, "Email is required")
		return
	}

	if err := d.Users.RequestPasswordReset(c.Request.Context(), data.Email); err != nil {
		render.Error(c, err)
		return
	}

	render.Done(c, http.StatusOK, "/auth/login?"+url.Values{"message": {resetRequestedMsg}}.Encode(), gin.H{
		"message": resetRequestedMsg,
	})
}

func PasswordResetPage(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		render.Message(c, http.StatusBadRequest, "No password reset key provided")
		return
	}

	render.Page(c, http.StatusOK, "password_reset.html", gin.H{
		"Title": "Reset password",
		"Key":   key,
	})
}

func PasswordReset(c *gin.Context, d *internal.Deps) {
	var data resetBody
	if err := c.ShouldBind(&data); err != nil {
		render.BindError(c, err, "Reset key and new password are required")
		return
	}

	if err := d.Users.ResetPassword(c.Request.Context(), data.Key, data.Password); err != nil {
		render.Error(c, err)
		return
	}

	const msg = "Password changed, you can log in now"

	render.Done(c, http.StatusOK, "/auth/login?"+url.Values{"message": {msg}}.Encode(), gin.H{
		"message": msg,
	})
}
