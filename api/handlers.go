package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/middleware"
	"github.com/MrEthical07/campusAuth/middleware/ginauth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) login(c *gin.Context, _ *campusAuth.Principal) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	res, err := s.engine.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) registerAdmin(c *gin.Context, _ *campusAuth.Principal) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	cred, err := s.engine.RegisterPrivileged(c.Request.Context(), campusAuth.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     campusAuth.Role(req.Role),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cred)
}

func (s *Server) me(c *gin.Context, p *campusAuth.Principal) {
	c.JSON(http.StatusOK, p)
}

func (s *Server) ping(c *gin.Context, p *campusAuth.Principal) {
	c.JSON(http.StatusOK, gin.H{"pong": true, "username": p.Username, "role": p.Role})
}

func (s *Server) health(c *gin.Context, _ *campusAuth.Principal) {
	if s.opts.Ready != nil {
		if err := s.opts.Ready(c.Request.Context()); err != nil {
			s.logger.Warn().Err(err).Msg("readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps err to its client response. Unmapped errors are logged since
// the client only sees a generic 500.
func (s *Server) fail(c *gin.Context, err error) {
	if status := middleware.StatusFor(err); status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	ginauth.Abort(c, err)
}

func badJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorBody{
		Error: middleware.ErrorDetail{Code: middleware.CodeValidation, Message: "request body must be JSON"},
	})
}
