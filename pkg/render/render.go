// Package render writes responses. Pages go to browsers, the JSON envelope
// goes to everything else
package render

import (
	"errors"
	"net/http"

	"github.com/kejiahp/QRcode-event-manager/internal/model"
	"github.com/kejiahp/QRcode-event-manager/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WantsHTML reports whether the client prefers a rendered page over JSON
func WantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// Status maps an error returned by the service layer to an HTTP status code
func Status(err error) int {
	if errors.Is(err, service.ErrUserNotFound) {
		return http.StatusNotFound
	}

	switch service.KindOf(err) {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict, service.KindValidationFailure:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindDependencyFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with a response describing err. Errors without a
// kind are logged and hidden behind a generic message
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")
	status := Status(err)

	switch service.KindOf(err) {
	case service.KindInternal:
		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	case service.KindDependencyFailure:
		zap.L().Warn("Dependency failure", zap.Error(err), zap.String("requestID", requestID))
	}

	Message(c, status, service.Message(err))
}

// Message aborts the request with status and a user facing message
func Message(c *gin.Context, status int, msg string) {
	requestID := c.GetString("requestID")

	if WantsHTML(c) {
		c.Abort()
		c.HTML(status, "error.html", gin.H{
			"Status":    status,
			"Title":     http.StatusText(status),
			"Message":   msg,
			"RequestID": requestID,
			"User":      CurrentUser(c),
		})
		return
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"requestID": requestID,
	})
}

// BindError aborts a request whose body couldn't be bound. Bodies cut off
// by the size limiter get a 413, anything else a 400 with msg
func BindError(c *gin.Context, err error, msg string) {
	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", c.GetString("requestID")))

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		Message(c, http.StatusRequestEntityTooLarge, "Request body size exceeds limit")
		return
	}

	Message(c, http.StatusBadRequest, msg)
}

// Page renders a template. The logged in user, if any, is added to data
// under "User"
func Page(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if _, ok := data["User"]; !ok {
		data["User"] = CurrentUser(c)
	}

	c.HTML(status, name, data)
}

// Done finishes a successful mutation. Browsers are sent to location,
// other clients get body as JSON
func Done(c *gin.Context, status int, location string, body any) {
	if WantsHTML(c) {
		c.Redirect(http.StatusFound, location)
		return
	}

	c.JSON(status, body)
}

// CurrentUser returns the user stored by the auth middleware or nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}

	u, _ := v.(*model.User)
	return u
}

// MustUser returns the user stored by the auth middleware. It panics on
// routes that aren't behind it
func MustUser(c *gin.Context) *model.User {
	return c.MustGet("user").(*model.User)
}
