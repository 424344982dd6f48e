// Package app builds the HTTP surface of the application
package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kejiahp/QRcode-event-manager/app/event"
	"github.com/kejiahp/QRcode-event-manager/app/invite"
	"github.com/kejiahp/QRcode-event-manager/app/root"
	"github.com/kejiahp/QRcode-event-manager/app/user"
	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/pkg/middleware"
	"github.com/kejiahp/QRcode-event-manager/pkg/render"
	"github.com/kejiahp/QRcode-event-manager/web"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxFormSize = 1 << 20

func NewRouter(d *internal.Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates, %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	origins := d.Config.Host.CORSOrigins
	if len(origins) == 0 {
		origins = []string{d.Config.Host.PublicURL}
	}

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	router.NoRoute(func(c *gin.Context) {
		render.Message(c, http.StatusNotFound, "Page not found")
	})
	router.NoMethod(func(c *gin.Context) {
		render.Message(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	store := persist.NewMemoryStore(time.Minute)
	cacheFor := func(sec int) gin.HandlerFunc {
		return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
	}

	jwt := middleware.NewJWTMiddleware(d.Users)
	turnstile := middleware.NewTurnstileMiddleware(d.Config.Security.Turnstile)
	bodyLimit := middleware.BodySizeLimiter(maxFormSize)
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: d.Config.Security.RateLimit,
		Burst:             d.Config.Security.RateLimit * 2,
	})

	// GET /			-> Redirects to the event list
	router.GET("/", root.Index)

	// HEAD|GET /heartbeat		-> Used to check if the server and database are alive
	router.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })
	router.GET("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })

	a := router.Group("/auth")
	{
		// GET /auth/login		-> Login page
		a.GET("/login", user.LoginPage)

		// GET /auth/sign-up		-> Sign up page
		a.GET("/sign-up", user.SignUpPage)

		// GET /auth/password-reset	-> Page to choose a new password, linked from the reset mail
		a.GET("/password-reset", user.PasswordResetPage)
	}

	ap := a.Group("", rateLimiter, bodyLimit)
	{
		// POST /auth/sign-up		-> Registers a new user
		ap.POST("/sign-up", turnstile, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /auth/login		-> Logs in a user and sets the session cookie
		ap.POST("/login", turnstile, func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /auth/logout		-> Clears the session cookie
		ap.POST("/logout", func(c *gin.Context) { user.UserLogout(c, d) })

		// POST /auth/password-reset/request	-> Mails a password reset link
		ap.POST("/password-reset/request", turnstile, func(c *gin.Context) { user.PasswordResetRequest(c, d) })

		// POST /auth/password-reset	-> Sets a new password using a reset key
		ap.POST("/password-reset", func(c *gin.Context) { user.PasswordReset(c, d) })
	}

	u := router.Group("/user", jwt)
	{
		// GET /user/me			-> Returns the logged in user
		u.GET("/me", user.UserFetch)
	}

	e := router.Group("/events", jwt)
	{
		// GET /events			-> Lists the user's events
		e.GET("", func(c *gin.Context) { event.EventList(c, d) })

		// GET /events/:event_id	-> Event details with its invites
		e.GET("/:event_id", func(c *gin.Context) { event.EventFetch(c, d) })

		// GET /events/invite/:invite_id	-> Invite details
		e.GET("/invite/:invite_id", func(c *gin.Context) { invite.InviteFetch(c, d) })

		// GET /events/verify-invite/:invite_code	-> Accepts an invite, the QR code points here
		e.GET("/verify-invite/:invite_code", func(c *gin.Context) { invite.InviteVerify(c, d) })

		// GET /events/verification-result	-> Shows the outcome of a verification
		e.GET("/verification-result", cacheFor(60), invite.VerificationResult)
	}

	ep := e.Group("", bodyLimit)
	{
		// POST /events/create		-> Creates an event
		ep.POST("/create", func(c *gin.Context) { event.EventCreate(c, d) })

		// POST /events/update/:event_id	-> Updates an event
		ep.POST("/update/:event_id", func(c *gin.Context) { event.EventUpdate(c, d) })

		// POST /events/delete/:event_id	-> Deletes an event and its invites
		ep.POST("/delete/:event_id", func(c *gin.Context) { event.EventDelete(c, d) })

		// POST /events/create-invitation/:event_id	-> Invites a guest and mails them their QR code
		ep.POST("/create-invitation/:event_id", func(c *gin.Context) { invite.InviteCreate(c, d) })

		// POST /events/invite/:invite_id/delete	-> Deletes an invite
		ep.POST("/invite/:invite_id/delete", func(c *gin.Context) { invite.InviteDelete(c, d) })
	}

	return router, nil
}
