package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retailco/shopper/app"
)

// TrackHandlers serve UI actions that exist mostly to be recorded:
// product detail views and navigation.
type TrackHandlers struct {
	Session Session
}

func NewTrackHandlers(session Session) *TrackHandlers {
	return &TrackHandlers{Session: session}
}

func (h *TrackHandlers) ViewProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	product, found := findProduct(h.Session.State(), id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	respond(c, dispatch(c, h.Session, app.ViewProduct{Product: product}))
}

type navigateRequest struct {
	View app.View `json:"view" binding:"required"`
}

func (h *TrackHandlers) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !req.View.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown view", "view": req.View})
		return
	}
	respond(c, dispatch(c, h.Session, app.Navigate{View: req.View}))
}
