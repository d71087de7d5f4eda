package api

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"complaints-backend/internal/auth"
	"complaints-backend/internal/mw"
)

// LoginPage renders the admin login form.
func (h *Handler) LoginPage(c *gin.Context) {
	if _, ok := mw.PrincipalFromSession(c); ok {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{"Flashes": h.takeFlashes(c), "Username": ""})
}

// Login handles POST /admin/login.
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	admin, err := auth.Authenticate(c.Request.Context(), h.store, username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.log.Warn().Str("username", username).Msg("failed admin login")
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"Flashes":  map[string][]string{flashError: {"Invalid credentials"}},
			"Username": username,
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("admin login failed")
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{
			"Flashes":  map[string][]string{flashError: {"Database connection error"}},
			"Username": username,
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(mw.SessionLoggedIn, true)
	session.Set(mw.SessionUsername, admin.Username)
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("failed to save admin session")
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{
			"Flashes":  map[string][]string{flashError: {"Could not start session"}},
			"Username": admin.Username,
		})
		return
	}

	h.log.Info().Str("username", admin.Username).Msg("admin logged in")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// Logout clears the admin session.
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(mw.SessionLoggedIn)
	session.Delete(mw.SessionUsername)
	if err := session.Save(); err != nil {
		h.log.Warn().Err(err).Msg("failed to clear admin session")
	}
	c.Redirect(http.StatusSeeOther, "/admin/login")
}
