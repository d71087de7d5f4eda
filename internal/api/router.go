package api

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"complaints-backend/config"
	"complaints-backend/internal/calendar"
	"complaints-backend/internal/mw"
	"complaints-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, zone *calendar.Zone, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(loadTemplates(zone))

	r.Use(mw.RequestLogger(log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.Error().Interface("panic", rec).Str("path", c.Request.URL.Path).Msg("panic")
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		c.Abort()
	}))

	sessionStore := cookie.NewStore([]byte(cfg.Session.Secret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAgeSeconds,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.Session.Name, sessionStore))

	handler := NewHandler(s, zone, log)

	// Shared by the two unauthenticated write endpoints.
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/complaint-form") })
	r.GET("/complaint-form", handler.ComplaintForm)
	r.POST("/submit-complaint", rateLimiter, handler.SubmitComplaint)
	r.GET("/healthz", handler.Health)

	admin := r.Group("/admin")
	{
		admin.GET("/login", handler.LoginPage)
		admin.POST("/login", rateLimiter, handler.Login)

		pages := admin.Group("", mw.RequireAdmin(mw.RedirectToLogin))
		pages.GET("/dashboard", handler.Dashboard)
		pages.GET("/students", handler.Students)
		pages.GET("/download-complaints/:period", handler.DownloadComplaints)
		pages.GET("/logout", handler.Logout)

		jsonAPI := admin.Group("", mw.RequireAdmin(mw.RespondUnauthorized))
		jsonAPI.POST("/update-status/:id", handler.UpdateStatus)
		jsonAPI.POST("/add-student", handler.AddStudent)
		jsonAPI.POST("/delete-student/:id", handler.DeleteStudent)
	}

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
	})

	return r
}
