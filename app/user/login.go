package user

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/internal/service"
	"github.com/kejiahp/QRcode-event-manager/pkg/middleware"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func LoginPage(c *gin.Context) {
	render.Page(c, http.StatusOK, "login.html", gin.H{
		"Title":   "Log in",
		"Message": c.Query("message"),
	})
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		render.BindError(c, err, "Email and password are required")
		return
	}

	user, token, err := d.Users.Login(c.Request.Context(), service.LoginInput{
		Email:    data.Email,
		Password: data.Password,
	})
	if err != nil {
		render.Error(c, err)
		return
	}

	setSessionCookie(c, d, token, int(d.Tokens.TTL().Seconds()))
	zap.L().Debug("User logged in", zap.String("userID", user.ID), zap.String("requestID", requestID))

	render.Done(c, http.StatusOK, "/events", gin.H{
		"userID": user.ID,
	})
}

// setSessionCookie writes the session cookie, a negative maxAge removes it
func setSessionCookie(c *gin.Context, d *internal.Deps, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", d.Config.SecureCookies(), true)
}
