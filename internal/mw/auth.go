package mw

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys written on login and cleared together on logout.
const (
	SessionLoggedIn = "admin_logged_in"
	SessionUsername = "admin_username"
)

const principalKey = "admin_principal"

// Principal identifies the admin making the current request.
type Principal struct {
	Username string
}

// Denied decides how a request without an admin session is answered.
type Denied func(c *gin.Context)

// RedirectToLogin sends browsers to the login page.
func RedirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/admin/login")
	c.Abort()
}

// RespondUnauthorized answers JSON callers with 401.
func RespondUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
}

// RequireAdmin admits requests carrying an admin session and places the
// Principal in the context; everything else goes to denied.
func RequireAdmin(denied Denied) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFromSession(c)
		if !ok {
			denied(c)
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// PrincipalFromSession reads the admin session, if any.
func PrincipalFromSession(c *gin.Context) (Principal, bool) {
	session := sessions.Default(c)
	loggedIn, _ := session.Get(SessionLoggedIn).(bool)
	username, _ := session.Get(SessionUsername).(string)
	if !loggedIn || username == "" {
		return Principal{}, false
	}
	return Principal{Username: username}, true
}

// CurrentAdmin returns the Principal set by RequireAdmin.
func CurrentAdmin(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
