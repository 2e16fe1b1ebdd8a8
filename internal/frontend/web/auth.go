package web

import (
	"net/http"
	"strings"

	"store-manager/internal/frontend/client"
	"store-manager/internal/frontend/session"
	"store-manager/internal/model"

	"github.com/gin-gonic/gin"
)

func (s *Server) loginPage(c *gin.Context) {
	s.renderLogin(c, http.StatusOK, "")
}

func (s *Server) login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	token, err := s.backend.Login(c.Request.Context(), username, password)
	if err != nil {
		switch client.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusBadRequest:
			s.renderLogin(c, http.StatusUnauthorized, "Invalid username or password.")
		case 0:
			s.logger.Error().Err(err).Msg("login request failed")
			s.renderLogin(c, http.StatusBadGateway, "Login failed: backend unavailable")
		default:
			s.renderLogin(c, client.StatusOf(err), "Login failed: "+err.Error())
		}
		return
	}

	id, err := s.sessions.Create(c.Request.Context(), session.Session{
		Username: username,
		Token:    token,
	}, s.opts.SessionTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create session")
		s.renderLogin(c, http.StatusServiceUnavailable, "Login failed: session store unavailable")
		return
	}

	s.setCookie(c, id)
	c.Redirect(http.StatusSeeOther, "/dashboard/main_dashboard")
}

func (s *Server) registerPage(c *gin.Context) {
	s.render(c, http.StatusOK, "register.html", gin.H{"title": "Register", "roles": model.AllRoles})
}

func (s *Server) register(c *gin.Context) {
	req := model.RegisterRequest{
		Username: strings.TrimSpace(c.PostForm("username")),
		FullName: strings.TrimSpace(c.PostForm("fullName")),
		Password: c.PostForm("password"),
	}
	if role := strings.TrimSpace(c.PostForm("role")); role != "" {
		req.Roles = []model.Role{model.Role(strings.ToUpper(role))}
	}

	if err := s.backend.Register(c.Request.Context(), req); err != nil {
		s.backendFailed(c, "register.html", "Registration failed: ", err, gin.H{
			"title": "Register",
			"roles": model.AllRoles,
			"form":  req,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) logout(c *gin.Context) {
	if id, err := c.Cookie(s.opts.CookieName); err == nil && id != "" {
		if err := s.sessions.Delete(c.Request.Context(), id); err != nil {
			s.logger.Warn().Err(err).Msg("failed to delete session on logout")
		}
	}
	s.clearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) aboutPage(c *gin.Context) {
	s.render(c, http.StatusOK, "about.html", gin.H{"title": "About"})
}

func (s *Server) dashboard(c *gin.Context) {
	s.render(c, http.StatusOK, "dashboard.html", gin.H{"title": "Dashboard"})
}

func (s *Server) productDashboard(c *gin.Context) {
	s.render(c, http.StatusOK, "product_dashboard.html", gin.H{"title": "Products"})
}

func (s *Server) orderDashboard(c *gin.Context) {
	s.render(c, http.StatusOK, "order_dashboard.html", gin.H{"title": "Orders"})
}
