package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kejiahp/QRcode-event-manager/config"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.Use(mw...)
	r.POST("/", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}

		c.Status(http.StatusNoContent)
	})

	return r
}

func post(r *gin.Engine, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRateLimiter(t *testing.T) {
	r := newEngine(RateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: 1, Burst: 2}))

	require.Equal(t, http.StatusNoContent, post(r, "", nil).Code)
	require.Equal(t, http.StatusNoContent, post(r, "", nil).Code)

	w := post(r, "", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "requestID")
}

func TestBodySizeLimiter(t *testing.T) {
	r := newEngine(BodySizeLimiter(8))

	require.Equal(t, http.StatusNoContent, post(r, "small", nil).Code)
	require.Equal(t, http.StatusRequestEntityTooLarge, post(r, "far too large", nil).Code)

	t.Run("body without content length", func(t *testing.T) {
		type loginForm struct {
			Email    string `form:"email" binding:"required"`
			Password string `form:"password" binding:"required"`
		}

		r := gin.New()
		r.Use(NewRequestIDMiddleware(), BodySizeLimiter(8))
		r.POST("/", func(c *gin.Context) {
			var data loginForm
			if err := c.ShouldBind(&data); err != nil {
				render.BindError(c, err, "Email and password are required")
				return
			}

			c.Status(http.StatusNoContent)
		})

		send := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			// Sent chunked, the size is only discovered while reading
			req.ContentLength = -1

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			return w
		}

		w := send("email=alice%40example.com&password=hunter22")
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

		var res map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Equal(t, "Request body size exceeds limit", res["error"])
		require.NotEmpty(t, res["requestID"])

		require.Equal(t, http.StatusBadRequest, send("a=b").Code)
	})
}

func TestTurnstile(t *testing.T) {
	var got map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(response{Success: got["response"] == "good"})
	}))
	defer srv.Close()

	old := siteverifyURL
	siteverifyURL = srv.URL
	t.Cleanup(func() { siteverifyURL = old })

	t.Run("disabled", func(t *testing.T) {
		r := newEngine(NewTurnstileMiddleware(config.TurnstileConfig{}))
		require.Equal(t, http.StatusNoContent, post(r, "", nil).Code)
	})

	r := newEngine(NewTurnstileMiddleware(config.TurnstileConfig{Enabled: true, SecretToken: "shh"}))

	t.Run("missing token", func(t *testing.T) {
		require.Equal(t, http.StatusBadRequest, post(r, "", nil).Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, post(r, "", map[string]string{"TurnstileToken": "bad"}).Code)
	})

	t.Run("accepted form token", func(t *testing.T) {
		w := post(r, "cf-turnstile-response=good", map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Equal(t, "shh", got["secret"])
	})
}
