package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kejiahp/QRcode-event-manager/config"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var siteverifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type response struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// NewTurnstileMiddleware verifies a Cloudflare Turnstile token sent either
// in the TurnstileToken header or the cf-turnstile-response form field.
// It does nothing when turnstile is disabled
func NewTurnstileMiddleware(cfg config.TurnstileConfig) gin.HandlerFunc {
	client := &http.Client{Timeout: 10 * time.Second}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		token := c.GetHeader("TurnstileToken")
		if token == "" {
			token = c.PostForm("cf-turnstile-response")
		}

		if token == "" {
			render.Message(c, http.StatusBadRequest, "Missing or invalid turnstile token")
			return
		}

		jsonBody, _ := json.Marshal(gin.H{
			"secret":   cfg.SecretToken,
			"response": token,
			"remoteip": c.ClientIP(),
		})

		resp, err := client.Post(siteverifyURL, "application/json", bytes.NewReader(jsonBody))
		if err != nil {
			zap.L().Error("Failed to reach turnstile", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
			render.Message(c, http.StatusServiceUnavailable, "Failed to verify turnstile token, please try again")
			return
		}
		defer resp.Body.Close()

		var res response
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil || !res.Success {
			zap.L().Debug("Turnstile rejected token", zap.Strings("codes", res.ErrorCodes))
			render.Message(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		c.Next()
	}
}
