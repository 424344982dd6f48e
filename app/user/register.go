package user

import (
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/internal/service"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Email    string `form:"email" json:"email" binding:"required,max=255"`
	Password string `form:"password" json:"password" binding:"required"`
}

func SignUpPage(c *gin.Context) {
	render.Page(c, http.StatusOK, "sign_up.html", gin.H{"Title": "Sign up"})
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		render.BindError(c, err, "Email and password are required")
		return
	}

	user, err := d.Users.SignUp(c.Request.Context(), service.SignUpInput{
		Email:    data.Email,
		Password: data.Password,
	})
	if err != nil {
		render.Error(c, err)
		return
	}

	zap.L().Info("New user registered", zap.String("userID", user.ID), zap.String("requestID", requestID))

	render.Done(c, http.StatusCreated, "/auth/login", user)
}
