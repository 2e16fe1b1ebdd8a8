package web

import (
	"errors"
	"net/http"

	"store-manager/internal/frontend/client"
	"store-manager/internal/frontend/session"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

const (
	msgLoginRequired  = "login required"
	msgSessionExpired = "session expired, please log in again"
)

// requireSession loads the caller's session or renders the login page.
func (s *Server) requireSession(c *gin.Context) {
	id, err := c.Cookie(s.opts.CookieName)
	if err != nil || id == "" {
		s.renderLogin(c, http.StatusUnauthorized, msgLoginRequired)
		c.Abort()
		return
	}

	sess, err := s.sessions.Get(c.Request.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Msg("session lookup failed")
		s.renderLogin(c, http.StatusServiceUnavailable, "session store unavailable, please try again")
		c.Abort()
		return
	}
	if sess == nil {
		s.clearCookie(c)
		s.renderLogin(c, http.StatusUnauthorized, msgLoginRequired)
		c.Abort()
		return
	}

	c.Set(sessionContextKey, sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

func (s *Server) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.opts.CookieName, id, int(s.opts.SessionTTL.Seconds()), "/", "", s.opts.CookieSecure, true)
}

func (s *Server) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.opts.CookieName, "", -1, "/", "", s.opts.CookieSecure, true)
}

// backendFailed renders page with a message describing err. A 401 from the
// backend means the stored token is no longer valid, so the session is dropped.
func (s *Server) backendFailed(c *gin.Context, page, prefix string, err error, data gin.H) {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("backend unavailable")
		data["error"] = prefix + "backend unavailable"
		s.render(c, http.StatusBadGateway, page, data)
		return
	}

	if apiErr.Status == http.StatusUnauthorized {
		if id, cerr := c.Cookie(s.opts.CookieName); cerr == nil {
			if derr := s.sessions.Delete(c.Request.Context(), id); derr != nil {
				s.logger.Warn().Err(derr).Msg("failed to delete expired session")
			}
		}
		s.clearCookie(c)
		s.renderLogin(c, http.StatusUnauthorized, msgSessionExpired)
		return
	}

	data["error"] = prefix + apiErr.Message
	s.render(c, apiErr.Status, page, data)
}
