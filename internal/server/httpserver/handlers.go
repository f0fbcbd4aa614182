package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
)

// Plain-text bodies of the error responses.
const (
	msgBadRequest   = "Bad Request"
	msgUserExists   = "User already exists"
	msgUserNotFound = "User not found"
	msgBadPassword  = "Invalid password"
	msgUnauthorized = "Unauthorized"
	msgInternal     = "Internal Server Error"
	msgLoginOK      = "Login successful"
)

type registerRequest struct {
	FName    string `json:"fname" form:"fname"`
	LName    string `json:"lname" form:"lname"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Position string `json:"position" form:"position"`
}

// loginRequest fields are optional: an empty email is reported as an unknown
// user and an empty password as a wrong one.
type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, msgBadRequest)
		return
	}

	ctx := c.Request.Context()

	_, err := s.users.Register(ctx, services.RegisterInput{
		FName:    req.FName,
		LName:    req.LName,
		Email:    req.Email,
		Password: req.Password,
		Position: req.Position,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			c.String(http.StatusConflict, msgUserExists)
		case errors.Is(err, common.ErrorInvalidInput):
			c.String(http.StatusBadRequest, msgBadRequest)
		default:
			c.String(http.StatusInternalServerError, msgInternal)
		}
		return
	}

	c.Status(http.StatusOK)
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, msgBadRequest)
		return
	}

	sess, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			c.String(http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, common.ErrorUnauthorized):
			c.String(http.StatusUnauthorized, msgBadPassword)
		default:
			c.String(http.StatusInternalServerError, msgInternal)
		}
		return
	}

	s.cookies.setAccessToken(c, sess.AccessToken)
	s.cookies.setTokenID(c, sess.TokenID)

	c.JSON(http.StatusOK, gin.H{
		"message": msgLoginOK,
		"user":    sess.User,
	})
}

func (s *HTTPServer) token(c *gin.Context) {
	tokenID, _ := c.Cookie(common.TokenIDCookieName)
	accessToken, _ := c.Cookie(common.AccessTokenCookieName)

	v, err := s.users.Validate(c.Request.Context(), tokenID, accessToken)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			if tokenID != "" {
				s.cookies.clear(c)
			}
			c.String(http.StatusUnauthorized, msgUnauthorized)
			return
		}
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}

	if v.Reissued() {
		s.cookies.setAccessToken(c, v.AccessToken)
	}

	c.JSON(http.StatusOK, gin.H{"user": v.User})
}

func (s *HTTPServer) logout(c *gin.Context) {
	tokenID, _ := c.Cookie(common.TokenIDCookieName)

	if err := s.users.Logout(c.Request.Context(), tokenID); err != nil {
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}

	s.cookies.clear(c)
	c.Status(http.StatusNoContent)
}
