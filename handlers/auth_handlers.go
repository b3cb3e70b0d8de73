package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retailco/shopper/app"
	"retailco/shopper/models"
	"retailco/shopper/utils"
)

type AuthHandlers struct {
	Session Session
}

func NewAuthHandlers(session Session) *AuthHandlers {
	return &AuthHandlers{Session: session}
}

func (h *AuthHandlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	respond(c, dispatch(c, h.Session, app.Register{Request: req}))
}

// Login signs in by credentials, falling back to email lookup when the
// auth service rejects them. The outcome is in the snapshot's notice.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if !h.Session.State().Settings.LookupOnly && utils.IsBlank(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}
	respond(c, dispatch(c, h.Session, app.Login{Request: req}))
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	respond(c, dispatch(c, h.Session, app.SignOut{}))
}
